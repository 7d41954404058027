package models

import "time"

const (
	ActionVaultCreated   = "vault.created"
	ActionSecretCreated  = "secret.created"
	ActionSecretAccessed = "secret.accessed"
	ActionMemberAdded    = "member.added"
	ActionLogsExported   = "logs.exported"
)

// AuditRecord is an append-only log entry. The reference fields are weak:
// they become nil when the referenced row is deleted. ActorEmail, VaultName
// and SecretName are filled by listing queries.
type AuditRecord struct {
	ID        int64
	Action    string
	ActorID   *string
	VaultID   *string
	SecretID  *string
	IP        string
	UserAgent string
	CreatedAt time.Time

	ActorEmail *string
	VaultName  *string
	SecretName *string
}

// DashboardStats aggregates over every vault an account can reach.
type DashboardStats struct {
	Vaults   int
	Secrets  int
	Accesses int
}
