package auditlog

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/server/models"
)

// Repository appends and reads audit records. There is no update or delete.
type Repository interface {
	Append(ctx context.Context, rec *models.AuditRecord) (*models.AuditRecord, error)
	// ListByVault returns records newest first, ties broken by id. A
	// non-positive limit returns everything.
	ListByVault(ctx context.Context, vaultID string, limit int) ([]models.AuditRecord, error)
	// ListAccessible returns records of every vault accountID can reach.
	ListAccessible(ctx context.Context, accountID string, limit int) ([]models.AuditRecord, error)
	// CountAccessible counts records with the given action across every
	// vault accountID can reach.
	CountAccessible(ctx context.Context, accountID, action string) (int, error)
}
