package common

import "errors"

// Kind is a stable, machine-readable classification of an error that is safe
// to expose to API callers.
type Kind string

const (
	KindInvalidCredentials         Kind = "invalid_credentials"
	KindInvalidSecondFactor        Kind = "invalid_second_factor"
	KindSecondFactorAlreadyEnabled Kind = "second_factor_already_enabled"
	KindSecondFactorNotEnabled     Kind = "second_factor_not_enabled"
	KindSecondFactorNotInitialized Kind = "second_factor_not_initialized"
	KindDenied                     Kind = "denied"
	KindNotFound                   Kind = "not_found"
	KindConflict                   Kind = "conflict"
	KindValidationFailed           Kind = "validation_failed"
	KindUnauthenticated            Kind = "unauthenticated"
	KindInternal                   Kind = "internal"
)

type kindEntry struct {
	kind    Kind
	err     error
	message string
}

// kinds is ordered: the first sentinel matched by errors.Is wins.
var kinds = []kindEntry{
	{KindInvalidCredentials, ErrInvalidCredentials, "invalid email or password"},
	{KindInvalidSecondFactor, ErrInvalidSecondFactor, "invalid TOTP code"},
	{KindSecondFactorAlreadyEnabled, ErrSecondFactorAlreadyEnabled, "two-factor authentication is already enabled"},
	{KindSecondFactorNotEnabled, ErrSecondFactorNotEnabled, "two-factor authentication is not enabled"},
	{KindSecondFactorNotInitialized, ErrSecondFactorNotInitialized, "two-factor authentication must be enabled first"},
	{KindDenied, ErrDenied, "access denied"},
	{KindNotFound, ErrorNotFound, "not found"},
	{KindConflict, ErrConflict, "already exists"},
	{KindValidationFailed, ErrValidation, "validation failed"},
	{KindUnauthenticated, ErrorUnauthorized, "unauthorized"},
	{KindUnauthenticated, ErrTokenExpired, "token expired"},
	{KindUnauthenticated, ErrInvalidToken, "invalid token"},
}

// KindOf classifies err. Anything outside the domain taxonomy is KindInternal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// MessageOf returns the human readable message for err. Validation errors
// keep their own text, which is composed by the service layer. Internal errors
// always get the same generic message so storage details never reach the
// caller.
func MessageOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			if k.kind == KindValidationFailed && err != k.err {
				return err.Error()
			}
			return k.message
		}
	}
	return ErrorInternal.Error()
}

// ErrorOf returns the sentinel error for a kind received over the wire.
func ErrorOf(kind Kind) error {
	for _, k := range kinds {
		if k.kind == kind {
			return k.err
		}
	}
	return ErrorInternal
}
