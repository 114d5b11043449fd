package session

import (
	"errors"
	"fmt"
)

// Pre-flight validation errors. These never reach the network.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingSignupField = errors.New("username, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// ErrNoRefreshToken is returned by Refresh when no refresh token is persisted.
var ErrNoRefreshToken = errors.New("no refresh token")

// ErrNotAuthenticated is returned by operations that need a live session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrUnreachable wraps transport-level failures (connection refused, timeout,
// malformed response body) so callers can distinguish "try again" from an
// authentication failure.
var ErrUnreachable = errors.New("auth service unreachable")

// APIError is a non-success response from the auth service, carrying the
// server-provided message and details alongside the HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}
