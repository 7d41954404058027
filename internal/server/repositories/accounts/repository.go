package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/cipher/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// UpdateSecondFactor overwrites the secret and enabled flag together.
	UpdateSecondFactor(ctx context.Context, id string, secret *string, enabled bool, at time.Time) error
}
