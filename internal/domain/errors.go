package domain

import "errors"

// Sentinel errors raised by the account workflow. Handlers map these to HTTP
// status codes with errors.Is; anything else surfaces as a server error.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrBadPassword        = errors.New("incorrect current password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRoleNotElevatable  = errors.New("role cannot be assigned through approval")
	ErrUserActive         = errors.New("user is already active")
)
