// Package common defines shared constants and sentinel errors used across
// client and server layers of Cipher. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation failed")

	// Primary and second factor authentication.
	ErrInvalidCredentials         = errors.New("invalid credentials")
	ErrInvalidSecondFactor        = errors.New("invalid second factor code")
	ErrSecondFactorAlreadyEnabled = errors.New("second factor already enabled")
	ErrSecondFactorNotEnabled     = errors.New("second factor not enabled")
	ErrSecondFactorNotInitialized = errors.New("second factor not initialized")

	// Authorization refused for the resolved grant or token scope.
	ErrDenied = errors.New("access denied")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
