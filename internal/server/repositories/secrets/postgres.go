// Package secrets persists sealed secret payloads in PostgreSQL.
package secrets

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

func (r *PostgresRepository) Create(ctx context.Context, s *models.Secret) (*models.Secret, error) {
	query :=
		`INSERT INTO secrets (vault_id, name, description, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id
		 `

	var description sql.NullString
	if s.Description != nil {
		description = sql.NullString{String: *s.Description, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		s.VaultID, s.Name, description, s.Payload, s.CreatedAt).Scan(&s.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.UpdatedAt = s.CreatedAt
	return s, nil
}

func (r *PostgresRepository) Get(ctx context.Context, vaultID, secretID string) (*models.Secret, error) {
	query :=
		`SELECT id, vault_id, name, description, payload, created_at, updated_at, last_accessed_at
		 FROM secrets
		 WHERE id = $1 AND vault_id = $2
		 `

	var (
		s            models.Secret
		description  sql.NullString
		lastAccessed sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, secretID, vaultID).Scan(
		&s.ID, &s.VaultID, &s.Name, &description, &s.Payload, &s.CreatedAt, &s.UpdatedAt, &lastAccessed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidText(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	fillOptional(&s, description, lastAccessed)
	return &s, nil
}

func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID string) ([]models.Secret, error) {
	query :=
		`SELECT id, vault_id, name, description, created_at, updated_at, last_accessed_at
		 FROM secrets
		 WHERE vault_id = $1
		 ORDER BY created_at DESC, id
		 `

	rows, err := r.db.QueryContext(ctx, query, vaultID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Secret, 0)
	for rows.Next() {
		var (
			s            models.Secret
			description  sql.NullString
			lastAccessed sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.VaultID, &s.Name, &description, &s.CreatedAt, &s.UpdatedAt, &lastAccessed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		fillOptional(&s, description, lastAccessed)
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Touch(ctx context.Context, secretID string, at time.Time) (time.Time, error) {
	query :=
		`UPDATE secrets
		 SET last_accessed_at = GREATEST(COALESCE(last_accessed_at, $2), $2)
		 WHERE id = $1
		 RETURNING last_accessed_at
		 `

	var stored time.Time
	err := r.db.QueryRowContext(ctx, query, secretID, at).Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, common.ErrorNotFound
		}
		return time.Time{}, fmt.Errorf("db error: %w", err)
	}

	return stored, nil
}

func fillOptional(s *models.Secret, description sql.NullString, lastAccessed sql.NullTime) {
	if description.Valid {
		s.Description = &description.String
	}
	if lastAccessed.Valid {
		s.LastAccessedAt = &lastAccessed.Time
	}
}
