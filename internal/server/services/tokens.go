package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/cryptox"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
)

// IssuedToken is what a successful login step hands back to the caller.
type IssuedToken struct {
	Token     string
	Scope     auth.Scope
	ExpiresAt time.Time
}

// TokenService drives the two-stage login:
//
//	Login ──(2FA off)──────────────────────────► full token
//	Login ──(2FA on)──► pending token ──CompleteSecondFactor──► full token
//
// No session state is kept; everything needed later travels in the token.
type TokenService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	signer          *auth.Signer
	verifier        *totp.Verifier
	sessionValidity time.Duration
}

func NewTokenService(db *sql.DB, m repomanager.RepositoryManager, signer *auth.Signer, verifier *totp.Verifier, sessionValidity time.Duration) *TokenService {
	return &TokenService{
		db:              db,
		repomanager:     m,
		signer:          signer,
		verifier:        verifier,
		sessionValidity: sessionValidity,
	}
}

var (
	dummyOnce       sync.Once
	dummyCredential string
)

// burnPasswordCheck spends the same time as a real password check so that
// unknown emails are not distinguishable by latency.
func burnPasswordCheck(password string) {
	dummyOnce.Do(func() {
		dummyCredential = cryptox.HashPassword([]byte("cipher/unknown-account"))
	})
	_, _ = cryptox.VerifyPassword([]byte(password), dummyCredential)
}

// Login verifies the primary credential. Accounts with the second factor
// enabled receive a pending token, all others a full one.
func (s *TokenService) Login(ctx context.Context, email, password string) (*IssuedToken, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			burnPasswordCheck(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := cryptox.VerifyPassword([]byte(password), account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if account.TwoFactorEnabled {
		return s.issue(account.ID, auth.ScopePending, true)
	}
	return s.issue(account.ID, auth.ScopeFull, false)
}

// CompleteSecondFactor exchanges a valid pending token and a current TOTP
// code for a full token. A wrong code leaves the pending token usable until
// it expires.
func (s *TokenService) CompleteSecondFactor(ctx context.Context, pendingToken, code string) (*IssuedToken, error) {
	claims, err := s.VerifyPending(pendingToken)
	if err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.AccountID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("complete second factor: %w", err)
	}

	if !account.TwoFactorEnabled {
		return nil, common.ErrSecondFactorNotEnabled
	}

	if !s.verifier.Verify(account.SecondFactorSecret(), strings.TrimSpace(code), totp.DefaultSkew) {
		return nil, common.ErrInvalidSecondFactor
	}

	return s.issue(account.ID, auth.ScopeFull, true)
}

// VerifyFull accepts only full tokens. A pending token is refused with
// common.ErrDenied.
func (s *TokenService) VerifyFull(token string) (*auth.Claims, error) {
	return s.verify(token, auth.ScopeFull)
}

// VerifyPending accepts only pending tokens.
func (s *TokenService) VerifyPending(token string) (*auth.Claims, error) {
	return s.verify(token, auth.ScopePending)
}

func (s *TokenService) verify(token string, want auth.Scope) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil, err
	}

	if claims.Scope != want {
		return nil, common.ErrDenied
	}
	return claims, nil
}

func (s *TokenService) issue(accountID string, scope auth.Scope, secondFactorEnabled bool) (*IssuedToken, error) {
	token, expiresAt, err := s.signer.Issue(accountID, scope, secondFactorEnabled, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &IssuedToken{Token: token, Scope: scope, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
