package service

import "errors"

// The service error taxonomy. Handlers map these to HTTP statuses; any
// other error is logged and surfaced as a generic 500.
var (
	// ErrMissingFields means a required registration or login field was absent.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidRole means the client asked for a role other than Customer.
	ErrInvalidRole = errors.New("only Customer role is allowed")
	// ErrUserExists means the username or email is already taken.
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials covers both unknown-user and wrong-password so
	// that responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound means the authenticated user's row no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
