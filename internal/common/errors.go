// Package common defines shared constants and sentinel errors used across
// client and server layers of Parallax. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorValidation       = errors.New("validation error")
	ErrorUsernameTooShort = errors.New("username must be at least 3 characters")
	ErrorPasswordTooShort = errors.New("password must be at least 6 characters")

	// Conflict errors (duplicate username, duplicate plate).
	ErrorAlreadyExists = errors.New("already exists")

	// License actions require a logged-in user.
	ErrorNoActiveSession = errors.New("no active session")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
