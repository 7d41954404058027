package client

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/api"
)

// Client is what the CLI needs from the server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Register(ctx context.Context, email, password string) (*api.Account, error)
	Login(ctx context.Context, email, password string) (*api.TokenResponse, error)
	CompleteSecondFactor(ctx context.Context, code string) (*api.TokenResponse, error)
	Logout()
	Scope() string

	Profile(ctx context.Context) (*api.Account, error)
	EnableSecondFactor(ctx context.Context) (*api.Enrollment, error)
	ConfirmSecondFactor(ctx context.Context, code string) error
	DisableSecondFactor(ctx context.Context, code string) error

	CreateVault(ctx context.Context, name string, description *string) (*api.Vault, error)
	ListVaults(ctx context.Context) ([]api.Vault, error)
	GetVault(ctx context.Context, vaultID string) (*api.Vault, error)
	CreateSecret(ctx context.Context, vaultID, name string, description *string, value string) (*api.Secret, error)
	ListSecrets(ctx context.Context, vaultID string) ([]api.Secret, error)
	ReadSecret(ctx context.Context, vaultID, secretID string) (*api.SecretValue, error)
	AddMember(ctx context.Context, vaultID, email, role string) (*api.Member, error)
	ListMembers(ctx context.Context, vaultID string) ([]api.Member, error)
	ListVaultLogs(ctx context.Context, vaultID string, limit int) ([]api.AuditEntry, error)
	ListAllLogs(ctx context.Context, limit int) ([]api.AuditEntry, error)
	Dashboard(ctx context.Context) (*api.DashboardResponse, error)
	ExportVaultLogs(ctx context.Context, vaultID string) (*api.ExportResponse, error)
}
