package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/logging"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/services"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
	"github.com/golang-jwt/jwt/v5"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeTokens knows two tokens: "full-token" and "pending-token", both for
// account "acc-1".
type fakeTokens struct {
	loginResp *services.IssuedToken
	loginErr  error

	completeResp  *services.IssuedToken
	completeErr   error
	completeToken string
}

func claimsFor(scope auth.Scope) *auth.Claims {
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acc-1"}, Scope: scope}
}

func (f *fakeTokens) Login(context.Context, string, string) (*services.IssuedToken, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeTokens) CompleteSecondFactor(_ context.Context, pendingToken, _ string) (*services.IssuedToken, error) {
	f.completeToken = pendingToken
	return f.completeResp, f.completeErr
}

func (f *fakeTokens) VerifyFull(token string) (*auth.Claims, error) {
	switch token {
	case "full-token":
		return claimsFor(auth.ScopeFull), nil
	case "pending-token":
		return nil, common.ErrDenied
	case "expired-token":
		return nil, common.ErrTokenExpired
	}
	return nil, common.ErrInvalidToken
}

func (f *fakeTokens) VerifyPending(token string) (*auth.Claims, error) {
	switch token {
	case "pending-token":
		return claimsFor(auth.ScopePending), nil
	case "full-token":
		return nil, common.ErrDenied
	}
	return nil, common.ErrInvalidToken
}

type fakeAccounts struct {
	account *models.Account
	err     error
}

func (f *fakeAccounts) Register(context.Context, string, string) (*models.Account, error) {
	return f.account, f.err
}

func (f *fakeAccounts) Profile(context.Context, string) (*models.Account, error) {
	return f.account, f.err
}

type fakeTwoFactor struct {
	enrollment *totp.Enrollment
	err        error
	accountID  string
	code       string
}

func (f *fakeTwoFactor) Enable(_ context.Context, accountID string) (*totp.Enrollment, error) {
	f.accountID = accountID
	return f.enrollment, f.err
}

func (f *fakeTwoFactor) Confirm(_ context.Context, accountID, code string) error {
	f.accountID, f.code = accountID, code
	return f.err
}

func (f *fakeTwoFactor) Disable(_ context.Context, accountID, code string) error {
	f.accountID, f.code = accountID, code
	return f.err
}

// fakeVaults records the caller and provenance of the last call.
type fakeVaults struct {
	mu        sync.Mutex
	accountID string
	info      services.RequestInfo
	err       error

	summary *models.VaultSummary
	secret  *services.SecretValue
	logs    []models.AuditRecord
	limit   int
}

func (f *fakeVaults) seen(ctx context.Context, accountID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accountID = accountID
	f.info = services.RequestInfoFrom(ctx)
}

func (f *fakeVaults) CreateVault(ctx context.Context, accountID, name string, _ *string) (*models.VaultSummary, error) {
	f.seen(ctx, accountID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.VaultSummary{Vault: models.Vault{ID: "v-1", Name: name, OwnerID: accountID, CreatedAt: now}, Role: models.RoleOwner, MembersCount: 1}, nil
}

func (f *fakeVaults) ListVaults(ctx context.Context, accountID string) ([]models.VaultSummary, error) {
	f.seen(ctx, accountID)
	if f.summary == nil {
		return nil, f.err
	}
	return []models.VaultSummary{*f.summary}, f.err
}

func (f *fakeVaults) GetVault(ctx context.Context, accountID, _ string) (*models.VaultSummary, error) {
	f.seen(ctx, accountID)
	return f.summary, f.err
}

func (f *fakeVaults) CreateSecret(ctx context.Context, accountID, vaultID, name string, _ *string, _ string) (*models.Secret, error) {
	f.seen(ctx, accountID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Secret{ID: "s-1", VaultID: vaultID, Name: name, CreatedAt: now}, nil
}

func (f *fakeVaults) ListSecrets(ctx context.Context, accountID, vaultID string) ([]models.Secret, error) {
	f.seen(ctx, accountID)
	return []models.Secret{{ID: "s-1", VaultID: vaultID, Name: "bank"}}, f.err
}

func (f *fakeVaults) ReadSecret(ctx context.Context, accountID, _, _ string) (*services.SecretValue, error) {
	f.seen(ctx, accountID)
	return f.secret, f.err
}

func (f *fakeVaults) AddMember(ctx context.Context, accountID, vaultID, email, role string) (*models.Membership, error) {
	f.seen(ctx, accountID)
	if f.err != nil {
		return nil, f.err
	}
	return &models.Membership{ID: "m-1", VaultID: vaultID, AccountID: "acc-2", Email: email, Role: role}, nil
}

func (f *fakeVaults) ListMembers(ctx context.Context, accountID, vaultID string) ([]models.Membership, error) {
	f.seen(ctx, accountID)
	return []models.Membership{{ID: "m-1", VaultID: vaultID, Role: models.RoleOwner}}, f.err
}

func (f *fakeVaults) ListVaultLogs(ctx context.Context, accountID, _ string, limit int) ([]models.AuditRecord, error) {
	f.seen(ctx, accountID)
	f.limit = limit
	return f.logs, f.err
}

func (f *fakeVaults) ListAllLogs(ctx context.Context, accountID string, limit int) ([]models.AuditRecord, error) {
	f.seen(ctx, accountID)
	f.limit = limit
	return f.logs, f.err
}

func (f *fakeVaults) Dashboard(ctx context.Context, accountID string) (*services.Dashboard, error) {
	f.seen(ctx, accountID)
	if f.err != nil {
		return nil, f.err
	}
	return &services.Dashboard{
		Stats:      models.DashboardStats{Vaults: 1, Secrets: 2, Accesses: 3},
		RecentLogs: f.logs,
	}, nil
}

func (f *fakeVaults) ExportVaultLogs(ctx context.Context, accountID, vaultID string) (*services.LogExport, error) {
	f.seen(ctx, accountID)
	if f.err != nil {
		return nil, f.err
	}
	return &services.LogExport{Key: "audit/" + vaultID + "/x.json", URL: "http://s3/x", ExpiresAt: now, Records: 4}, nil
}

// recordingLogger keeps messages so tests can assert on what was logged.
type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
	args [][]any
}

func (l *recordingLogger) record(msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
	l.args = append(l.args, args)
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.record(msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.record(msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.record(msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.record(msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) has(msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

type testServer struct {
	*GRPCServer
	tokens   *fakeTokens
	accounts *fakeAccounts
	twofa    *fakeTwoFactor
	vaults   *fakeVaults
	logger   *recordingLogger
}

func newTestServer() *testServer {
	ts := &testServer{
		tokens:   &fakeTokens{},
		accounts: &fakeAccounts{},
		twofa:    &fakeTwoFactor{},
		vaults:   &fakeVaults{},
		logger:   &recordingLogger{},
	}
	ts.GRPCServer = &GRPCServer{
		address:  "127.0.0.1:0",
		logger:   ts.logger,
		tokens:   ts.tokens,
		accounts: ts.accounts,
		twofa:    ts.twofa,
		vaults:   ts.vaults,
	}
	return ts
}
