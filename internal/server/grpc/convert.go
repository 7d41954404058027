package grpc

import (
	"github.com/dmitrijs2005/cipher/internal/api"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/services"
)

func toToken(t *services.IssuedToken) *api.TokenResponse {
	return &api.TokenResponse{AccessToken: t.Token, Scope: string(t.Scope), ExpiresAt: t.ExpiresAt}
}

func toAccount(a *models.Account) *api.Account {
	return &api.Account{
		ID:               a.ID,
		Email:            a.Email,
		TwoFactorEnabled: a.TwoFactorEnabled,
		CreatedAt:        a.CreatedAt,
	}
}

func toVault(v models.VaultSummary) *api.Vault {
	return &api.Vault{
		ID:             v.ID,
		Name:           v.Name,
		Description:    v.Description,
		Role:           v.Role,
		SecretsCount:   v.SecretsCount,
		MembersCount:   v.MembersCount,
		CreatedAt:      v.CreatedAt,
		LastActivityAt: v.LastActivityAt,
	}
}

func toVaults(list []models.VaultSummary) []api.Vault {
	out := make([]api.Vault, 0, len(list))
	for _, v := range list {
		out = append(out, *toVault(v))
	}
	return out
}

func toSecret(s models.Secret) *api.Secret {
	return &api.Secret{
		ID:             s.ID,
		VaultID:        s.VaultID,
		Name:           s.Name,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
	}
}

func toMember(m models.Membership) *api.Member {
	return &api.Member{
		ID:        m.ID,
		AccountID: m.AccountID,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

// toAuditEntries renders records with their optional references left
// absent rather than guessed.
func toAuditEntries(list []models.AuditRecord) []api.AuditEntry {
	out := make([]api.AuditEntry, 0, len(list))
	for _, r := range list {
		out = append(out, api.AuditEntry{
			ID:         r.ID,
			Action:     r.Action,
			ActorEmail: r.ActorEmail,
			VaultID:    r.VaultID,
			VaultName:  r.VaultName,
			SecretID:   r.SecretID,
			SecretName: r.SecretName,
			IP:         r.IP,
			UserAgent:  r.UserAgent,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}
