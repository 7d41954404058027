package members

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type Repository interface {
	// Add inserts a membership. A second row for the same (vault, account)
	// pair is rejected by the storage layer and yields common.ErrConflict.
	Add(ctx context.Context, m *models.Membership) (*models.Membership, error)
	Get(ctx context.Context, vaultID, accountID string) (*models.Membership, error)
	ListByVault(ctx context.Context, vaultID string) ([]models.Membership, error)
}
