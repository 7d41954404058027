package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/google/uuid"
)

// LogExport describes an audit trail written to object storage.
type LogExport struct {
	Key       string
	URL       string
	ExpiresAt time.Time
	Records   int
}

type exportDocument struct {
	VaultID    string        `json:"vault_id"`
	VaultName  string        `json:"vault_name"`
	ExportedBy string        `json:"exported_by"`
	ExportedAt time.Time     `json:"exported_at"`
	Records    []exportEntry `json:"records"`
}

type exportEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	ActorID    *string   `json:"actor_id"`
	ActorEmail *string   `json:"actor_email"`
	SecretID   *string   `json:"secret_id"`
	SecretName *string   `json:"secret_name"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExportVaultLogs uploads the complete audit trail of vaultID as JSON and
// returns a presigned download link. The export itself is recorded as
// logs.exported; if the upload fails nothing is recorded.
func (s *VaultService) ExportVaultLogs(ctx context.Context, accountID, vaultID string) (*LogExport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", common.ErrorInternal)
	}

	return PerformAudited(ctx, s, models.ActionLogsExported, accountID, vaultID, RequireAccess,
		func(ctx context.Context, tx dbx.DBTX, t *Target) (*LogExport, error) {
			records, err := s.repomanager.AuditLog(tx).ListByVault(ctx, t.Vault.ID, 0)
			if err != nil {
				return nil, err
			}

			now := s.clock.Now().UTC()
			doc := exportDocument{
				VaultID:    t.Vault.ID,
				VaultName:  t.Vault.Name,
				ExportedBy: accountID,
				ExportedAt: now,
				Records:    make([]exportEntry, 0, len(records)),
			}
			for _, r := range records {
				doc.Records = append(doc.Records, exportEntry{
					ID:         r.ID,
					Action:     r.Action,
					ActorID:    r.ActorID,
					ActorEmail: r.ActorEmail,
					SecretID:   r.SecretID,
					SecretName: r.SecretName,
					IP:         r.IP,
					UserAgent:  r.UserAgent,
					CreatedAt:  r.CreatedAt,
				})
			}

			body, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return nil, err
			}

			key := exportKey(t.Vault.ID, now)
			if err := s.store.Put(ctx, key, body, "application/json"); err != nil {
				return nil, err
			}

			url, err := s.store.PresignGet(ctx, key, s.exportTTL)
			if err != nil {
				return nil, err
			}

			return &LogExport{Key: key, URL: url, ExpiresAt: now.Add(s.exportTTL), Records: len(records)}, nil
		})
}

func exportKey(vaultID string, at time.Time) string {
	return fmt.Sprintf("audit/%s/%04d/%02d/%02d/%s.json", vaultID, at.Year(), at.Month(), at.Day(), uuid.NewString())
}
