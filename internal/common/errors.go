// Package common contains shared constants and sentinel errors used across
// taskkeeper components. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so the login flow cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrRefreshTokenExpired wraps ErrInvalidToken: callers matching the
	// coarse kind with errors.Is(err, ErrInvalidToken) still match, while
	// the refresh flow can report the precise cause.
	ErrRefreshTokenExpired = fmt.Errorf("%w: refresh token expired", ErrInvalidToken)

	// Validation errors.
	ErrorValidation = errors.New("validation error")
)
