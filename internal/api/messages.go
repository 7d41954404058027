package api

import "time"

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	Scope       string    `json:"scope"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type Account struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

type Enrollment struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
}

type CreateVaultRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type VaultRequest struct {
	VaultID string `json:"vault_id"`
}

type Vault struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	Role           string     `json:"role"`
	SecretsCount   int        `json:"secrets_count"`
	MembersCount   int        `json:"members_count"`
	CreatedAt      time.Time  `json:"created_at"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty"`
}

type ListVaultsResponse struct {
	Vaults []Vault `json:"vaults"`
}

type CreateSecretRequest struct {
	VaultID     string  `json:"vault_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Value       string  `json:"value"`
}

type Secret struct {
	ID             string     `json:"id"`
	VaultID        string     `json:"vault_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
}

type ListSecretsResponse struct {
	Secrets []Secret `json:"secrets"`
}

type ReadSecretRequest struct {
	VaultID  string `json:"vault_id"`
	SecretID string `json:"secret_id"`
}

type SecretValue struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Value          string    `json:"value"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}

type AddMemberRequest struct {
	VaultID string `json:"vault_id"`
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
}

type Member struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

// LogsRequest selects audit records. VaultID is ignored by ListAllLogs; a
// zero Limit means the server default.
type LogsRequest struct {
	VaultID string `json:"vault_id,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type AuditEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`
	ActorEmail *string   `json:"actor_email,omitempty"`
	VaultID    *string   `json:"vault_id,omitempty"`
	VaultName  *string   `json:"vault_name,omitempty"`
	SecretID   *string   `json:"secret_id,omitempty"`
	SecretName *string   `json:"secret_name,omitempty"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

type LogsResponse struct {
	Logs []AuditEntry `json:"logs"`
}

type DashboardStats struct {
	Vaults   int `json:"vaults"`
	Secrets  int `json:"secrets"`
	Accesses int `json:"accesses"`
}

type DashboardResponse struct {
	Stats        DashboardStats `json:"stats"`
	RecentVaults []Vault        `json:"recent_vaults"`
	RecentLogs   []AuditEntry   `json:"recent_logs"`
}

type ExportResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Records   int       `json:"records"`
}
