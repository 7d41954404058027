package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
	"github.com/juju/clock"
)

// TwoFactorService manages the second factor lifecycle of an account:
// Enable stores a provisional secret, Confirm switches it on, Disable clears
// it. Each call either fully applies or leaves the account untouched.
type TwoFactorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *totp.Verifier
	clock       clock.Clock
}

func NewTwoFactorService(db *sql.DB, m repomanager.RepositoryManager, verifier *totp.Verifier, clk clock.Clock) *TwoFactorService {
	return &TwoFactorService{db: db, repomanager: m, verifier: verifier, clock: clk}
}

// Enable generates a fresh secret and stores it without enabling it. Calling
// Enable again before Confirm replaces the provisional secret.
func (s *TwoFactorService) Enable(ctx context.Context, accountID string) (*totp.Enrollment, error) {
	var enrollment totp.Enrollment

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account.TwoFactorEnabled {
			return common.ErrSecondFactorAlreadyEnabled
		}

		enrollment, err = s.verifier.Generate(account.Email)
		if err != nil {
			return err
		}

		return repo.UpdateSecondFactor(ctx, account.ID, &enrollment.Secret, false, s.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	return &enrollment, nil
}

// Confirm flips the enabled flag once code matches the provisional secret.
func (s *TwoFactorService) Confirm(ctx context.Context, accountID, code string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if account.TwoFactorEnabled {
			return common.ErrSecondFactorAlreadyEnabled
		}
		if account.TwoFactorSecret == nil {
			return common.ErrSecondFactorNotInitialized
		}
		if !s.verifier.Verify(*account.TwoFactorSecret, strings.TrimSpace(code), totp.DefaultSkew) {
			return common.ErrInvalidSecondFactor
		}

		return repo.UpdateSecondFactor(ctx, account.ID, account.TwoFactorSecret, true, s.clock.Now())
	})
}

// Disable clears the secret and the flag once code matches the current
// secret.
func (s *TwoFactorService) Disable(ctx context.Context, accountID, code string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		account, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.TwoFactorEnabled {
			return common.ErrSecondFactorNotEnabled
		}
		if !s.verifier.Verify(account.SecondFactorSecret(), strings.TrimSpace(code), totp.DefaultSkew) {
			return common.ErrInvalidSecondFactor
		}

		return repo.UpdateSecondFactor(ctx, account.ID, nil, false, s.clock.Now())
	})
}
