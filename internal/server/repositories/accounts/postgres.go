// Package accounts persists accounts in PostgreSQL.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account and fills ID. A duplicate email yields
// common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.CreatedAt).Scan(&account.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.UpdatedAt = account.CreatedAt
	return account, nil
}

const selectAccount = `SELECT id, email, password_hash, two_factor_secret, two_factor_enabled, created_at, updated_at FROM accounts`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+` WHERE email = $1`, email)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a := &models.Account{}
	var secret sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &secret, &a.TwoFactorEnabled, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if secret.Valid {
		a.TwoFactorSecret = &secret.String
	}
	return a, nil
}

func (r *PostgresRepository) UpdateSecondFactor(ctx context.Context, id string, secret *string, enabled bool, at time.Time) error {
	query :=
		`UPDATE accounts
		 SET two_factor_secret = $2, two_factor_enabled = $3, updated_at = $4
		 WHERE id = $1
		 `

	var s sql.NullString
	if secret != nil {
		s = sql.NullString{String: *secret, Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, id, s, enabled, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
