package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/cryptox"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/juju/clock"
)

const MinPasswordLen = 8

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, clk clock.Clock) *AccountService {
	return &AccountService{db: db, repomanager: m, clock: clk}
}

// Register creates an account with the second factor off. A duplicate email
// yields common.ErrConflict.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", common.ErrValidation)
	}
	if len([]rune(password)) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLen)
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password)),
		CreatedAt:    s.clock.Now().UTC(),
	}

	return s.repomanager.Accounts(s.db).Create(ctx, account)
}

func (s *AccountService) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
}
