package session

// UserProfile is the minimal profile persisted alongside the token after
// OTP verification.
type UserProfile struct {
	ID                int64  `json:"id"`
	FullName          string `json:"full_name"`
	MobileNumber      string `json:"mobile_number"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Session is the client's sole piece of cross-component shared state:
// written once at login, cleared once at logout, read on every
// authenticated request.
type Session struct {
	Token   string
	Profile UserProfile
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
}

type RegisterRequest struct {
	FullName     string `json:"full_name" validate:"required"`
	MobileNumber string `json:"mobile_number" validate:"required,len=10,number"`
}

type VerifyOTPRequest struct {
	MobileNumber string `json:"mobile_number"`
	OTP          string `json:"otp"`
}

type VerifyOTPResponse struct {
	Status  string      `json:"status"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
	User    UserProfile `json:"user"`
}
