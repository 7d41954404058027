package models

import "time"

type Vault struct {
	ID          string
	Name        string
	Description *string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VaultSummary is a vault as seen by one caller: the caller's role label
// plus aggregate counters. LastActivityAt is the newest audit record time,
// nil for a vault with no history.
type VaultSummary struct {
	Vault
	Role           string
	SecretsCount   int
	MembersCount   int
	LastActivityAt *time.Time
}

// Membership grants Role on a vault to a non-owning account. Email is
// populated by listing queries only.
type Membership struct {
	ID        string
	VaultID   string
	AccountID string
	Role      string
	Email     string
	CreatedAt time.Time
}
