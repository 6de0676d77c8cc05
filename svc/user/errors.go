package user

import "errors"

var (
	// ErrNotFound is returned when the user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned for a wrong email/password pair.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWeakPassword is returned for passwords below the minimum length.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
	// ErrInvalidEmail is returned for empty or malformed email addresses.
	ErrInvalidEmail = errors.New("invalid email address")
)
