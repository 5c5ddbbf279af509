package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/souravsatyam/gymapp/internal/logger"
)

// Store keeps the current session in memory on top of the sqlite-backed
// Repository and hands the token to the API client. It satisfies
// api.TokenSource.
type Store struct {
	mu      sync.RWMutex
	repo    *Repository
	current *Session
}

func NewStore(ctx context.Context, repo *Repository) (*Store, error) {
	s := &Store{repo: repo}

	current, err := repo.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	s.current = current

	return s, nil
}

// Token returns the persisted bearer token, or "" when logged out. Callers
// proceed unauthenticated in that case and let the server reject.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

// TokenExpiry reads the exp claim out of the stored token without
// verifying the signature; the client has no secret and only wants to know
// whether a login screen is coming. Returns the zero time when no expiry
// can be determined.
func (s *Store) TokenExpiry() time.Time {
	token := s.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		logger.Debugf("Could not parse stored token: %v", err)
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Expired reports whether the stored token carries an exp claim in the
// past. Tokens without a readable expiry are treated as live; the server
// stays the authority.
func (s *Store) Expired() bool {
	exp := s.TokenExpiry()
	if exp.IsZero() {
		return false
	}
	return exp.Before(time.Now())
}
