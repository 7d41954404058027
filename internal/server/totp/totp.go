// Package totp implements the second factor check: RFC 6238 codes with a
// 30 second step and 6 digits.
package totp

import (
	"errors"

	"github.com/juju/clock"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	Period = 30
	Digits = otp.DigitsSix

	// DefaultSkew accepts codes one step before or after the current one.
	DefaultSkew = 1

	// secretSize is in bytes; 20 bytes gives 160 bits of entropy.
	secretSize = 20
)

var ErrMissingSecret = errors.New("second factor secret is missing")

// Enrollment is a freshly generated secret plus its otpauth:// provisioning
// URI. Nothing is persisted by Generate.
type Enrollment struct {
	Secret string
	URI    string
}

type Verifier struct {
	issuer string
	clock  clock.Clock
}

func NewVerifier(issuer string, clk clock.Clock) *Verifier {
	return &Verifier{issuer: issuer, clock: clk}
}

// Generate produces a new base32 secret for accountLabel (the account email).
func (v *Verifier) Generate(accountLabel string) (Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      v.issuer,
		AccountName: accountLabel,
		Period:      Period,
		SecretSize:  secretSize,
		Digits:      Digits,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return Enrollment{}, err
	}

	return Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// Verify reports whether code is valid for secret at the current step or
// within skew steps of it. An empty secret never verifies.
func (v *Verifier) Verify(secret, code string, skew uint) bool {
	if secret == "" {
		return false
	}

	ok, err := totp.ValidateCustom(code, secret, v.clock.Now().UTC(), validateOpts(skew))
	if err != nil {
		return false
	}
	return ok
}

// Code computes the code for secret at the current clock time. Used by tests
// and by tooling that needs to drive the second factor.
func (v *Verifier) Code(secret string) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	return totp.GenerateCodeCustom(secret, v.clock.Now().UTC(), validateOpts(0))
}

func validateOpts(skew uint) totp.ValidateOpts {
	return totp.ValidateOpts{
		Period:    Period,
		Skew:      skew,
		Digits:    Digits,
		Algorithm: otp.AlgorithmSHA1,
	}
}
