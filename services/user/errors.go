package user

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTimeZone    = errors.New("unknown time zone")
	ErrGoogleNotEnabled   = errors.New("google calendar integration is not configured")
	ErrRoleNotAllowed     = errors.New("role cannot self-register")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)
