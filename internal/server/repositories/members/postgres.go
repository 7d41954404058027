// Package members persists vault memberships in PostgreSQL.
package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Add(ctx context.Context, m *models.Membership) (*models.Membership, error) {
	query :=
		`INSERT INTO vault_members (vault_id, account_id, role, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, m.VaultID, m.AccountID, m.Role, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) Get(ctx context.Context, vaultID, accountID string) (*models.Membership, error) {
	query :=
		`SELECT id, vault_id, account_id, role, created_at FROM vault_members
		 WHERE vault_id = $1 AND account_id = $2
		 `

	m := &models.Membership{}
	err := r.db.QueryRowContext(ctx, query, vaultID, accountID).Scan(
		&m.ID, &m.VaultID, &m.AccountID, &m.Role, &m.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID string) ([]models.Membership, error) {
	query :=
		`SELECT m.id, m.vault_id, m.account_id, m.role, a.email, m.created_at
		 FROM vault_members m
		 JOIN accounts a ON a.id = m.account_id
		 WHERE m.vault_id = $1
		 ORDER BY m.created_at, m.id
		 `

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Membership, 0)
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.ID, &m.VaultID, &m.AccountID, &m.Role, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
