package auth

import "errors"

var (
	// ErrEmailAlreadyExists signals a duplicate registration email.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrInvalidCredentials signals a failed email/password check.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotActivated signals a login before email confirmation.
	ErrNotActivated = errors.New("account not activated")
	// ErrUserNotFound signals a missing user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrWeakPassword signals a password below the minimum length.
	ErrWeakPassword = errors.New("password too short")
	// ErrInvalidToken signals an expired or malformed token.
	ErrInvalidToken = errors.New("invalid token")
)
