// Package vaults persists vaults in PostgreSQL.
package vaults

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

func (r *PostgresRepository) Create(ctx context.Context, vault *models.Vault) (*models.Vault, error) {
	query :=
		`INSERT INTO vaults (name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		vault.Name, nullString(vault.Description), vault.OwnerID, vault.CreatedAt).Scan(&vault.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	vault.UpdatedAt = vault.CreatedAt
	return vault, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Vault, error) {
	query :=
		`SELECT id, name, description, owner_id, created_at, updated_at FROM vaults
		 WHERE id = $1
		 `

	v := &models.Vault{}
	var description sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&v.ID, &v.Name, &description, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	v.Description = stringPtr(description)
	return v, nil
}

func (r *PostgresRepository) ListAccessible(ctx context.Context, accountID string) ([]models.VaultSummary, error) {
	query :=
		`SELECT v.id, v.name, v.description, v.owner_id, v.created_at, v.updated_at,
		        CASE WHEN v.owner_id = $1 THEN 'owner' ELSE m.role END,
		        (SELECT COUNT(*) FROM secrets s WHERE s.vault_id = v.id),
		        (SELECT COUNT(*) FROM vault_members vm WHERE vm.vault_id = v.id),
		        (SELECT MAX(a.created_at) FROM audit_log a WHERE a.vault_id = v.id)
		 FROM vaults v
		 LEFT JOIN vault_members m ON m.vault_id = v.id AND m.account_id = $1
		 WHERE v.owner_id = $1 OR m.account_id IS NOT NULL
		 ORDER BY v.created_at DESC, v.id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.VaultSummary, 0)
	for rows.Next() {
		var (
			s            models.VaultSummary
			description  sql.NullString
			lastActivity sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.Name, &description, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
			&s.Role, &s.SecretsCount, &s.MembersCount, &lastActivity); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Description = stringPtr(description)
		s.LastActivityAt = timePtr(lastActivity)
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Summarize(ctx context.Context, vault *models.Vault) (*models.VaultSummary, error) {
	query :=
		`SELECT (SELECT COUNT(*) FROM secrets WHERE vault_id = $1),
		        (SELECT COUNT(*) FROM vault_members WHERE vault_id = $1),
		        (SELECT MAX(created_at) FROM audit_log WHERE vault_id = $1)
		 `

	s := &models.VaultSummary{Vault: *vault}
	var lastActivity sql.NullTime

	err := r.db.QueryRowContext(ctx, query, vault.ID).Scan(&s.SecretsCount, &s.MembersCount, &lastActivity)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.LastActivityAt = timePtr(lastActivity)
	return s, nil
}
