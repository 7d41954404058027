package secrets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, secret *models.Secret) (*models.Secret, error)
	// Get returns the secret only when it belongs to vaultID.
	Get(ctx context.Context, vaultID, secretID string) (*models.Secret, error)
	// ListByVault returns metadata without payloads, newest first.
	ListByVault(ctx context.Context, vaultID string) ([]models.Secret, error)
	// Touch moves last_accessed_at forward to at and returns the stored
	// value, which never goes backwards.
	Touch(ctx context.Context, secretID string, at time.Time) (time.Time, error)
}
