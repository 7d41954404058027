package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Requirement is the minimum grant an operation needs.
type Requirement int

const (
	// RequireAccess admits the owner and any member regardless of role.
	RequireAccess Requirement = iota
	// RequireOwner admits the owner only.
	RequireOwner
)

func (r Requirement) check(g models.Grant) error {
	if !g.Allowed() {
		return common.ErrDenied
	}
	if r == RequireOwner && !g.IsOwner() {
		return common.ErrDenied
	}
	return nil
}

// AccessController resolves what an account may do on a vault. Ownership
// and membership are independent grants; ownership always wins.
type AccessController struct {
	repomanager repomanager.RepositoryManager
}

func NewAccessController(m repomanager.RepositoryManager) *AccessController {
	return &AccessController{repomanager: m}
}

// Resolve returns the vault and the caller's grant on it. An unknown or
// malformed vault id yields common.ErrorNotFound, never a Denied grant.
func (c *AccessController) Resolve(ctx context.Context, db dbx.DBTX, accountID, vaultID string) (*models.Vault, models.Grant, error) {
	if _, err := uuid.Parse(vaultID); err != nil {
		return nil, models.DeniedGrant(), common.ErrorNotFound
	}

	vault, err := c.repomanager.Vaults(db).GetByID(ctx, vaultID)
	if err != nil {
		return nil, models.DeniedGrant(), err
	}

	if vault.OwnerID == accountID {
		return vault, models.OwnerGrant(), nil
	}

	m, err := c.repomanager.Members(db).Get(ctx, vaultID, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return vault, models.DeniedGrant(), nil
		}
		return nil, models.DeniedGrant(), fmt.Errorf("resolve membership: %w", err)
	}

	return vault, models.MemberGrant(m.Role), nil
}
