package vaults

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, vault *models.Vault) (*models.Vault, error)
	GetByID(ctx context.Context, id string) (*models.Vault, error)
	// ListAccessible returns every vault accountID owns or is a member of,
	// newest first, with the caller's role label and counters.
	ListAccessible(ctx context.Context, accountID string) ([]models.VaultSummary, error)
	// Summarize fills counters for a single vault. Role is left empty.
	Summarize(ctx context.Context, vault *models.Vault) (*models.VaultSummary, error)
}
