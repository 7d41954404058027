package models

import "time"

// Secret holds a sealed payload. Payload is never returned by listing
// queries.
type Secret struct {
	ID             string
	VaultID        string
	Name           string
	Description    *string
	Payload        []byte
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastAccessedAt *time.Time
}
