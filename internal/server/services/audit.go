package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/juju/clock"
)

// AuditRecorder appends audit records. It is always handed the transaction
// of the operation being audited so that both commit or neither does.
type AuditRecorder struct {
	repomanager repomanager.RepositoryManager
	clock       clock.Clock
}

func NewAuditRecorder(m repomanager.RepositoryManager, clk clock.Clock) *AuditRecorder {
	return &AuditRecorder{repomanager: m, clock: clk}
}

// Record appends one record for action. Provenance comes from ctx; the user
// agent is truncated rather than rejected when too long.
func (r *AuditRecorder) Record(ctx context.Context, tx dbx.DBTX, action, actorID string, vaultID, secretID *string) (*models.AuditRecord, error) {
	info := RequestInfoFrom(ctx)

	rec := &models.AuditRecord{
		Action:    action,
		ActorID:   &actorID,
		VaultID:   vaultID,
		SecretID:  secretID,
		IP:        truncate(info.IP, maxIPLen),
		UserAgent: truncate(info.UserAgent, maxUserAgentLen),
		CreatedAt: r.clock.Now().UTC(),
	}

	rec, err := r.repomanager.AuditLog(tx).Append(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", action, err)
	}
	return rec, nil
}
