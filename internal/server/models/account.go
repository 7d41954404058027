// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered identity. PasswordHash is an opaque credential
// produced by cryptox.HashPassword. TwoFactorSecret is set while enrollment
// is provisional or confirmed; TwoFactorEnabled implies a secret is present.
type Account struct {
	ID               string
	Email            string
	PasswordHash     string
	TwoFactorSecret  *string
	TwoFactorEnabled bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SecondFactorSecret returns the stored secret or "" when none is set.
func (a *Account) SecondFactorSecret() string {
	if a.TwoFactorSecret == nil {
		return ""
	}
	return *a.TwoFactorSecret
}
