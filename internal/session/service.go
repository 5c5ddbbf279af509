package session

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/souravsatyam/gymapp/internal/api"
	"github.com/souravsatyam/gymapp/internal/logger"
)

var (
	ErrLoginFailed = errors.New("login failed")
	ErrNoToken     = errors.New("verification succeeded but no token was returned")
	ErrInvalidOTP  = errors.New("invalid otp")
)

// Service drives the OTP login flow against the remote auth endpoints and
// persists the resulting session through the Store.
type Service struct {
	client   *api.Client
	store    *Store
	validate *validator.Validate
}

func NewService(client *api.Client, store *Store) *Service {
	return &Service{
		client:   client,
		store:    store,
		validate: validator.New(),
	}
}

// Login asks the server to send an OTP to the given phone number.
func (s *Service) Login(ctx context.Context, phoneNumber string) error {
	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := s.client.PostJSON(ctx, "/auth/login", LoginRequest{Identifier: phoneNumber}, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "success" && resp.Status != "ok" {
		logger.Warnf("Login rejected for %s: %s", phoneNumber, resp.Message)
		return ErrLoginFailed
	}
	return nil
}

// Register creates a new account; the server follows up with an OTP the
// same way Login does.
func (s *Service) Register(ctx context.Context, fullName, mobileNumber string) error {
	req := RegisterRequest{FullName: fullName, MobileNumber: mobileNumber}
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	return s.client.PostJSON(ctx, "/auth/register", req, &resp)
}

// VerifyOTP completes the OTP flow. On success the returned token and
// profile are persisted and attached to every subsequent request. A success
// response missing its token field persists nothing and reports ErrNoToken.
func (s *Service) VerifyOTP(ctx context.Context, mobileNumber, otp string) (*Session, error) {
	var resp VerifyOTPResponse
	err := s.client.PostJSON(ctx, "/auth/verify-otp", VerifyOTPRequest{
		MobileNumber: mobileNumber,
		OTP:          otp,
	}, &resp)
	if err != nil {
		if api.IsStatus(err, 400) || api.IsUnauthorized(err) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	if resp.Token == "" {
		logger.Warnf("OTP verify response for %s carried no token", mobileNumber)
		return nil, ErrNoToken
	}

	sess := &Session{Token: resp.Token, Profile: resp.User}
	if sess.Profile.MobileNumber == "" {
		sess.Profile.MobileNumber = mobileNumber
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}

	logger.Infof("Logged in as %s", mobileNumber)
	return sess, nil
}

// Logout clears the persisted session. The token is not revoked remotely;
// the observed product has no revocation endpoint.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}
