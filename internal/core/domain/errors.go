package domain

import "errors"

// Business-rule failures. These are expected outcomes, matched with
// errors.Is at the transport boundary and mapped to HTTP status codes
// there (see internal/api/error_handler.go).
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUnauthorized       = errors.New("unauthorized")
)

// Token validation failures. Kept distinct so callers can tell an expired
// token (renewable) from a tampered or garbled one.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenWrongKind = errors.New("token kind mismatch")
	ErrTokenMalformed = errors.New("token malformed")
)

// Infrastructure failures. Surfaced to the transport layer as a generic
// internal error; never shown to clients.
var (
	ErrHashing          = errors.New("password hashing failed")
	ErrStoreUnavailable = errors.New("user store unavailable")
	ErrStoreTimeout     = errors.New("user store timeout")
)
