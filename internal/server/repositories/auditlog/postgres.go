// Package auditlog stores the append-only audit trail in PostgreSQL.
package auditlog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, rec *models.AuditRecord) (*models.AuditRecord, error) {
	query :=
		`INSERT INTO audit_log (action, actor_id, vault_id, secret_id, ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.Action, nullString(rec.ActorID), nullString(rec.VaultID), nullString(rec.SecretID),
		rec.IP, rec.UserAgent, rec.CreatedAt).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

const selectRecords =
	`SELECT l.id, l.action, l.actor_id, l.vault_id, l.secret_id, l.ip, l.user_agent, l.created_at,
	        a.email, v.name, s.name
	 FROM audit_log l
	 LEFT JOIN accounts a ON a.id = l.actor_id
	 LEFT JOIN vaults v ON v.id = l.vault_id
	 LEFT JOIN secrets s ON s.id = l.secret_id
	 `

const accessibleVaults =
	`SELECT id FROM vaults WHERE owner_id = $1
	 UNION
	 SELECT vault_id FROM vault_members WHERE account_id = $1`

func (r *PostgresRepository) ListByVault(ctx context.Context, vaultID string, limit int) ([]models.AuditRecord, error) {
	query := selectRecords +
		`WHERE l.vault_id = $1
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT $2
		 `

	return r.list(ctx, query, vaultID, nullLimit(limit))
}

func (r *PostgresRepository) ListAccessible(ctx context.Context, accountID string, limit int) ([]models.AuditRecord, error) {
	query := selectRecords +
		`WHERE l.vault_id IN (` + accessibleVaults + `)
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT $2
		 `

	return r.list(ctx, query, accountID, nullLimit(limit))
}

func (r *PostgresRepository) CountAccessible(ctx context.Context, accountID, action string) (int, error) {
	query :=
		`SELECT COUNT(*) FROM audit_log
		 WHERE action = $2 AND vault_id IN (` + accessibleVaults + `)
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, accountID, action).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.AuditRecord, 0)
	for rows.Next() {
		var (
			rec                          models.AuditRecord
			actorID, vaultID, secretID   sql.NullString
			actorEmail, vaultName, sName sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Action, &actorID, &vaultID, &secretID, &rec.IP, &rec.UserAgent, &rec.CreatedAt,
			&actorEmail, &vaultName, &sName); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.ActorID = stringPtr(actorID)
		rec.VaultID = stringPtr(vaultID)
		rec.SecretID = stringPtr(secretID)
		rec.ActorEmail = stringPtr(actorEmail)
		rec.VaultName = stringPtr(vaultName)
		rec.SecretName = stringPtr(sName)
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// nullLimit maps a non-positive limit to NULL, which PostgreSQL treats as
// LIMIT ALL.
func nullLimit(limit int) sql.NullInt64 {
	if limit <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(limit), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
