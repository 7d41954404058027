package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/dbx"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/google/uuid"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500

	dashboardVaults = 3
	dashboardLogs   = 5
)

// SecretValue is the result of reading a secret.
type SecretValue struct {
	ID             string
	Name           string
	Value          string
	LastAccessedAt time.Time
}

type Dashboard struct {
	Stats        models.DashboardStats
	RecentVaults []models.VaultSummary
	RecentLogs   []models.AuditRecord
}

// CreateVault creates the vault, its synthetic owner membership and the
// vault.created record in one transaction.
func (s *VaultService) CreateVault(ctx context.Context, accountID, name string, description *string) (*models.VaultSummary, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: vault name is required", common.ErrValidation)
	}
	description = trimOptional(description)

	now := s.clock.Now().UTC()
	var summary *models.VaultSummary

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		vault, err := s.repomanager.Vaults(tx).Create(ctx, &models.Vault{
			Name:        name,
			Description: description,
			OwnerID:     accountID,
			CreatedAt:   now,
		})
		if err != nil {
			return err
		}

		if _, err := s.repomanager.Members(tx).Add(ctx, &models.Membership{
			VaultID:   vault.ID,
			AccountID: accountID,
			Role:      models.RoleOwner,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		rec, err := s.audit.Record(ctx, tx, models.ActionVaultCreated, accountID, &vault.ID, nil)
		if err != nil {
			return err
		}

		summary = &models.VaultSummary{
			Vault:          *vault,
			Role:           models.RoleOwner,
			MembersCount:   1,
			LastActivityAt: &rec.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// ListVaults returns owned and member vaults, each once.
func (s *VaultService) ListVaults(ctx context.Context, accountID string) ([]models.VaultSummary, error) {
	return s.repomanager.Vaults(s.db).ListAccessible(ctx, accountID)
}

func (s *VaultService) GetVault(ctx context.Context, accountID, vaultID string) (*models.VaultSummary, error) {
	return performAuthorized(ctx, s, accountID, vaultID, RequireAccess,
		func(ctx context.Context, db dbx.DBTX, t *Target) (*models.VaultSummary, error) {
			summary, err := s.repomanager.Vaults(db).Summarize(ctx, t.Vault)
			if err != nil {
				return nil, err
			}
			summary.Role = t.Grant.RoleLabel()
			return summary, nil
		})
}

// ListSecrets returns secret metadata without values. Not audited.
func (s *VaultService) ListSecrets(ctx context.Context, accountID, vaultID string) ([]models.Secret, error) {
	return performAuthorized(ctx, s, accountID, vaultID, RequireAccess,
		func(ctx context.Context, db dbx.DBTX, t *Target) ([]models.Secret, error) {
			return s.repomanager.Secrets(db).ListByVault(ctx, t.Vault.ID)
		})
}

func (s *VaultService) CreateSecret(ctx context.Context, accountID, vaultID, name string, description *string, value string) (*models.Secret, error) {
	name = strings.TrimSpace(name)
	if name == "" || value == "" {
		return nil, fmt.Errorf("%w: secret name and value are required", common.ErrValidation)
	}
	description = trimOptional(description)

	return PerformAudited(ctx, s, models.ActionSecretCreated, accountID, vaultID, RequireAccess,
		func(ctx context.Context, tx dbx.DBTX, t *Target) (*models.Secret, error) {
			secret, err := s.repomanager.Secrets(tx).Create(ctx, &models.Secret{
				VaultID:     t.Vault.ID,
				Name:        name,
				Description: description,
				Payload:     s.sealer.Seal([]byte(value)),
				CreatedAt:   s.clock.Now().UTC(),
			})
			if err != nil {
				return nil, err
			}
			t.SecretID = &secret.ID
			secret.Payload = nil
			return secret, nil
		})
}

// ReadSecret returns the plaintext value, moves last-accessed forward and
// records secret.accessed. A secret of another vault, like a malformed
// secret id, is reported as not found.
func (s *VaultService) ReadSecret(ctx context.Context, accountID, vaultID, secretID string) (*SecretValue, error) {
	return PerformAudited(ctx, s, models.ActionSecretAccessed, accountID, vaultID, RequireAccess,
		func(ctx context.Context, tx dbx.DBTX, t *Target) (*SecretValue, error) {
			if _, err := uuid.Parse(secretID); err != nil {
				return nil, common.ErrorNotFound
			}
			repo := s.repomanager.Secrets(tx)

			secret, err := repo.Get(ctx, t.Vault.ID, secretID)
			if err != nil {
				return nil, err
			}

			value, err := s.sealer.Open(secret.Payload)
			if err != nil {
				return nil, fmt.Errorf("open secret %s: %w", secret.ID, err)
			}

			accessed, err := repo.Touch(ctx, secret.ID, s.clock.Now().UTC())
			if err != nil {
				return nil, err
			}

			t.SecretID = &secret.ID
			return &SecretValue{ID: secret.ID, Name: secret.Name, Value: string(value), LastAccessedAt: accessed}, nil
		})
}

func (s *VaultService) ListMembers(ctx context.Context, accountID, vaultID string) ([]models.Membership, error) {
	return performAuthorized(ctx, s, accountID, vaultID, RequireAccess,
		func(ctx context.Context, db dbx.DBTX, t *Target) ([]models.Membership, error) {
			return s.repomanager.Members(db).ListByVault(ctx, t.Vault.ID)
		})
}

// AddMember grants role on vaultID to the account registered under email.
// Only the owner may add members. The application-level duplicate check is
// backed by the (vault, account) unique constraint, so a concurrent duplicate
// also ends in common.ErrConflict.
func (s *VaultService) AddMember(ctx context.Context, accountID, vaultID, email, role string) (*models.Membership, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	role = strings.TrimSpace(role)
	if role == "" {
		role = models.RoleMember
	}
	if strings.EqualFold(role, models.RoleOwner) {
		return nil, fmt.Errorf("%w: role %q is reserved", common.ErrValidation, models.RoleOwner)
	}

	return PerformAudited(ctx, s, models.ActionMemberAdded, accountID, vaultID, RequireOwner,
		func(ctx context.Context, tx dbx.DBTX, t *Target) (*models.Membership, error) {
			invitee, err := s.repomanager.Accounts(tx).GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if invitee.ID == t.Vault.OwnerID {
				return nil, common.ErrConflict
			}

			members := s.repomanager.Members(tx)

			_, err = members.Get(ctx, t.Vault.ID, invitee.ID)
			switch {
			case err == nil:
				return nil, common.ErrConflict
			case !errors.Is(err, common.ErrorNotFound):
				return nil, err
			}

			m, err := members.Add(ctx, &models.Membership{
				VaultID:   t.Vault.ID,
				AccountID: invitee.ID,
				Role:      role,
				CreatedAt: s.clock.Now().UTC(),
			})
			if err != nil {
				return nil, err
			}
			m.Email = invitee.Email
			return m, nil
		})
}

// ListVaultLogs returns the vault's audit trail newest first.
func (s *VaultService) ListVaultLogs(ctx context.Context, accountID, vaultID string, limit int) ([]models.AuditRecord, error) {
	return performAuthorized(ctx, s, accountID, vaultID, RequireAccess,
		func(ctx context.Context, db dbx.DBTX, t *Target) ([]models.AuditRecord, error) {
			return s.repomanager.AuditLog(db).ListByVault(ctx, t.Vault.ID, clampLimit(limit))
		})
}

// ListAllLogs returns records of every vault the account can reach.
func (s *VaultService) ListAllLogs(ctx context.Context, accountID string, limit int) ([]models.AuditRecord, error) {
	return s.repomanager.AuditLog(s.db).ListAccessible(ctx, accountID, clampLimit(limit))
}

func (s *VaultService) Dashboard(ctx context.Context, accountID string) (*Dashboard, error) {
	vaults, err := s.ListVaults(ctx, accountID)
	if err != nil {
		return nil, err
	}

	accesses, err := s.repomanager.AuditLog(s.db).CountAccessible(ctx, accountID, models.ActionSecretAccessed)
	if err != nil {
		return nil, err
	}

	logs, err := s.repomanager.AuditLog(s.db).ListAccessible(ctx, accountID, dashboardLogs)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Stats:        models.DashboardStats{Vaults: len(vaults), Accesses: accesses},
		RecentVaults: recentVaults(vaults, dashboardVaults),
		RecentLogs:   logs,
	}
	for _, v := range vaults {
		d.Stats.Secrets += v.SecretsCount
	}

	return d, nil
}

// recentVaults ranks vaults by latest activity; vaults without any activity
// pad the tail in their listing order.
func recentVaults(vaults []models.VaultSummary, n int) []models.VaultSummary {
	ranked := make([]models.VaultSummary, len(vaults))
	copy(ranked, vaults)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].LastActivityAt, ranked[j].LastActivityAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLogLimit
	case limit > MaxLogLimit:
		return MaxLogLimit
	default:
		return limit
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
