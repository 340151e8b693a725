package repository

import "errors"

var (
	// ErrDuplicateUser is returned when an insert violates the username or
	// email uniqueness constraint.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
)
