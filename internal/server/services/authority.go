package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/cipher/internal/cryptox"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/objectstore"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/juju/clock"
)

// Target is what an authorized operation acts on. An operation that touches
// a particular secret sets SecretID so the audit record references it.
type Target struct {
	AccountID string
	Vault     *models.Vault
	Grant     models.Grant
	SecretID  *string
}

// Operation is the body of a vault operation, run after access is granted.
type Operation[T any] func(ctx context.Context, db dbx.DBTX, target *Target) (T, error)

// VaultService is the single entry point for vault, secret and membership
// operations. Every call resolves the caller's grant first; mutating and
// secret-reading calls also append an audit record in the same transaction.
type VaultService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *TokenService
	access      *AccessController
	audit       *AuditRecorder
	sealer      *cryptox.Sealer
	store       objectstore.Store
	exportTTL   time.Duration
	clock       clock.Clock
}

type VaultServiceDeps struct {
	DB          *sql.DB
	Repomanager repomanager.RepositoryManager
	Tokens      *TokenService
	Access      *AccessController
	Audit       *AuditRecorder
	Sealer      *cryptox.Sealer
	Store       objectstore.Store
	ExportTTL   time.Duration
	Clock       clock.Clock
}

func NewVaultService(d VaultServiceDeps) *VaultService {
	return &VaultService{
		db:          d.DB,
		repomanager: d.Repomanager,
		tokens:      d.Tokens,
		access:      d.Access,
		audit:       d.Audit,
		sealer:      d.Sealer,
		store:       d.Store,
		exportTTL:   d.ExportTTL,
		clock:       d.Clock,
	}
}

// AuthorizeVaultAccess verifies a full token and resolves its subject's grant
// on vaultID. Pending tokens are refused before any lookup. A Denied grant is
// reported as common.ErrDenied.
func (s *VaultService) AuthorizeVaultAccess(ctx context.Context, token, vaultID string) (models.Grant, error) {
	claims, err := s.tokens.VerifyFull(token)
	if err != nil {
		return models.DeniedGrant(), err
	}

	_, grant, err := s.access.Resolve(ctx, s.db, claims.AccountID(), vaultID)
	if err != nil {
		return models.DeniedGrant(), err
	}
	if err := RequireAccess.check(grant); err != nil {
		return grant, err
	}
	return grant, nil
}

// PerformAudited runs op for accountID on vaultID inside one transaction:
// resolve grant, enforce req, run op, append an action record, commit. A
// refused grant returns before op runs and records nothing. If op or the
// audit append fails the whole transaction rolls back.
func PerformAudited[T any](ctx context.Context, s *VaultService, action, accountID, vaultID string, req Requirement, op Operation[T]) (T, error) {
	var result T

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		target, err := s.authorize(ctx, tx, accountID, vaultID, req)
		if err != nil {
			return err
		}

		result, err = op(ctx, tx, target)
		if err != nil {
			return err
		}

		_, err = s.audit.Record(ctx, tx, action, accountID, &target.Vault.ID, target.SecretID)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

// performAuthorized is PerformAudited for read-only operations that are not
// audited. It runs without a transaction.
func performAuthorized[T any](ctx context.Context, s *VaultService, accountID, vaultID string, req Requirement, op Operation[T]) (T, error) {
	var zero T

	target, err := s.authorize(ctx, s.db, accountID, vaultID, req)
	if err != nil {
		return zero, err
	}

	return op(ctx, s.db, target)
}

func (s *VaultService) authorize(ctx context.Context, db dbx.DBTX, accountID, vaultID string, req Requirement) (*Target, error) {
	vault, grant, err := s.access.Resolve(ctx, db, accountID, vaultID)
	if err != nil {
		return nil, err
	}
	if err := req.check(grant); err != nil {
		return nil, err
	}
	return &Target{AccountID: accountID, Vault: vault, Grant: grant}, nil
}
