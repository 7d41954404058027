// Package auth mints and verifies the signed session tokens handed to clients.
//
// A token is an HS256 JWT whose claims carry the account id as subject, a
// closed Scope tag, the expiry, and for pending tokens the second factor
// marker. Nothing about a token is stored server side.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/juju/clock"
)

// Scope is the authority a token grants.
type Scope string

const (
	ScopeNone    Scope = "none"
	ScopePending Scope = "2fa_pending"
	ScopeFull    Scope = "full"
)

// PendingValidity is the fixed lifetime of a pending second factor token.
const PendingValidity = 5 * time.Minute

const (
	RoleUser    = "ROLE_USER"
	RolePending = "ROLE_2FA_PENDING"
)

type Claims struct {
	jwt.RegisteredClaims
	Scope               Scope    `json:"scope"`
	SecondFactorPending bool     `json:"2fa_pending,omitempty"`
	SecondFactorEnabled bool     `json:"2fa_enabled"`
	Roles               []string `json:"roles"`
}

// AccountID returns the token subject.
func (c *Claims) AccountID() string {
	return c.Subject
}

// Signer issues and parses tokens with a shared HMAC key.
type Signer struct {
	secretKey []byte
	clock     clock.Clock
}

func NewSigner(secretKey []byte, clk clock.Clock) *Signer {
	return &Signer{secretKey: secretKey, clock: clk}
}

// Issue mints a token for accountID. A pending token ignores validity and
// expires after PendingValidity, and its role set is reduced to RolePending.
func (s *Signer) Issue(accountID string, scope Scope, secondFactorEnabled bool, validity time.Duration) (string, time.Time, error) {
	now := s.clock.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
		Scope:               scope,
		SecondFactorEnabled: secondFactorEnabled,
	}

	switch scope {
	case ScopePending:
		validity = PendingValidity
		claims.SecondFactorPending = true
		claims.Roles = []string{RolePending}
	case ScopeFull:
		claims.Roles = []string{RoleUser}
	default:
		return "", time.Time{}, fmt.Errorf("cannot issue token with scope %q", scope)
	}

	expiresAt := now.Add(validity)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, claims.ExpiresAt.Time, nil
}

// Parse verifies signature and expiry against the signer's clock and returns
// the claims. Expired tokens yield common.ErrTokenExpired, anything else that
// fails verification yields common.ErrInvalidToken.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	// the pending marker and the scope tag must agree
	switch claims.Scope {
	case ScopePending:
		if !claims.SecondFactorPending {
			return nil, common.ErrInvalidToken
		}
	case ScopeFull:
		if claims.SecondFactorPending {
			return nil, common.ErrInvalidToken
		}
	default:
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ScopeOf returns the scope a token string grants right now, or ScopeNone
// when it does not verify.
func (s *Signer) ScopeOf(tokenString string) Scope {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return ScopeNone
	}
	return claims.Scope
}
