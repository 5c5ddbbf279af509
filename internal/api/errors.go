package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed request so callers can distinguish "the server
// said no" from "we never got an answer" from "the answer made no sense".
// An empty result is never reported as an error.
type Kind int

const (
	KindTransport Kind = iota + 1
	KindStatus
	KindUnauthorized
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindUnauthorized:
		return "unauthorized"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by Client calls.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s error: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api: %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api: %s error (status %d)", e.Kind, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Err: err}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}

func statusError(code int, message string) *Error {
	kind := KindStatus
	if code == 401 || code == 403 {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, StatusCode: code, Message: message}
}

// ErrorKind reports the Kind of err, or 0 if err is not an api error.
func ErrorKind(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsUnauthorized reports whether err is a 401/403 response.
func IsUnauthorized(err error) bool {
	return ErrorKind(err) == KindUnauthorized
}

// IsStatus reports whether err is a server response with the given code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}
