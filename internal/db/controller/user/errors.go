package user

import "errors"

var (
	// ErrUserNotFound is returned when no record matches the lookup.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when an insert violates the unique email index.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrEmailEmpty is returned when a record without email is inserted or looked up.
	ErrEmailEmpty = errors.New("email cannot be empty")

	// ErrIDEmpty is returned for a lookup or update without id.
	ErrIDEmpty = errors.New("user id cannot be empty")

	// ErrDBNil is returned when the store has no database connection.
	ErrDBNil = errors.New("database connection is nil")
)
