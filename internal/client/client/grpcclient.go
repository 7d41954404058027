package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/cipher/internal/api"
	"github.com/dmitrijs2005/cipher/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const userAgent = "cipher-cli/1.0"

// Token scopes as issued by the server.
const (
	ScopePending = "2fa_pending"
	ScopeFull    = "full"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      *api.Client

	mu          sync.RWMutex
	accessToken string
	scope       string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewCipherClient connects to endpointURL. Extra dial options are appended
// after the defaults.
func NewCipherClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithUserAgent(userAgent),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}

	c.conn = conn
	c.client = api.NewClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t *api.TokenResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = t.AccessToken
	s.scope = t.Scope
}

// Scope is the scope of the current token, "" when logged out.
func (s *GRPCClient) Scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

func (s *GRPCClient) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.scope = ""
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// call runs fn with the request timeout applied and maps its error.
func call[T any](ctx context.Context, s *GRPCClient, fn func(ctx context.Context) (*T, error)) (*T, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := fn(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := call(ctx, s, func(ctx context.Context) (*api.PingResponse, error) {
		return s.client.Ping(ctx, &api.Empty{})
	})
	if err != nil {
		return err
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*api.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Account, error) {
		return s.client.Register(ctx, &api.CredentialsRequest{Email: email, Password: password})
	})
}

// Login stores the returned token. When it is a pending token the caller
// must finish with CompleteSecondFactor.
func (s *GRPCClient) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {

	resp, err := call(ctx, s, func(ctx context.Context) (*api.TokenResponse, error) {
		return s.client.Login(ctx, &api.CredentialsRequest{Email: email, Password: password})
	})
	if err != nil {
		return nil, err
	}

	s.setToken(resp)
	return resp, nil

}

func (s *GRPCClient) CompleteSecondFactor(ctx context.Context, code string) (*api.TokenResponse, error) {

	resp, err := call(ctx, s, func(ctx context.Context) (*api.TokenResponse, error) {
		return s.client.CompleteSecondFactor(ctx, &api.CodeRequest{Code: code})
	})
	if err != nil {
		return nil, err
	}

	s.setToken(resp)
	return resp, nil

}

func (s *GRPCClient) Profile(ctx context.Context) (*api.Account, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Account, error) {
		return s.client.Profile(ctx, &api.Empty{})
	})
}

func (s *GRPCClient) EnableSecondFactor(ctx context.Context) (*api.Enrollment, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Enrollment, error) {
		return s.client.EnableSecondFactor(ctx, &api.Empty{})
	})
}

func (s *GRPCClient) ConfirmSecondFactor(ctx context.Context, code string) error {
	_, err := call(ctx, s, func(ctx context.Context) (*api.Empty, error) {
		return s.client.ConfirmSecondFactor(ctx, &api.CodeRequest{Code: code})
	})
	return err
}

func (s *GRPCClient) DisableSecondFactor(ctx context.Context, code string) error {
	_, err := call(ctx, s, func(ctx context.Context) (*api.Empty, error) {
		return s.client.DisableSecondFactor(ctx, &api.CodeRequest{Code: code})
	})
	return err
}

func (s *GRPCClient) CreateVault(ctx context.Context, name string, description *string) (*api.Vault, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Vault, error) {
		return s.client.CreateVault(ctx, &api.CreateVaultRequest{Name: name, Description: description})
	})
}

func (s *GRPCClient) ListVaults(ctx context.Context) ([]api.Vault, error) {
	resp, err := call(ctx, s, func(ctx context.Context) (*api.ListVaultsResponse, error) {
		return s.client.ListVaults(ctx, &api.Empty{})
	})
	if err != nil {
		return nil, err
	}
	return resp.Vaults, nil
}

func (s *GRPCClient) GetVault(ctx context.Context, vaultID string) (*api.Vault, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Vault, error) {
		return s.client.GetVault(ctx, &api.VaultRequest{VaultID: vaultID})
	})
}

func (s *GRPCClient) CreateSecret(ctx context.Context, vaultID, name string, description *string, value string) (*api.Secret, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Secret, error) {
		return s.client.CreateSecret(ctx, &api.CreateSecretRequest{VaultID: vaultID, Name: name, Description: description, Value: value})
	})
}

func (s *GRPCClient) ListSecrets(ctx context.Context, vaultID string) ([]api.Secret, error) {
	resp, err := call(ctx, s, func(ctx context.Context) (*api.ListSecretsResponse, error) {
		return s.client.ListSecrets(ctx, &api.VaultRequest{VaultID: vaultID})
	})
	if err != nil {
		return nil, err
	}
	return resp.Secrets, nil
}

func (s *GRPCClient) ReadSecret(ctx context.Context, vaultID, secretID string) (*api.SecretValue, error) {
	return call(ctx, s, func(ctx context.Context) (*api.SecretValue, error) {
		return s.client.ReadSecret(ctx, &api.ReadSecretRequest{VaultID: vaultID, SecretID: secretID})
	})
}

func (s *GRPCClient) AddMember(ctx context.Context, vaultID, email, role string) (*api.Member, error) {
	return call(ctx, s, func(ctx context.Context) (*api.Member, error) {
		return s.client.AddMember(ctx, &api.AddMemberRequest{VaultID: vaultID, Email: email, Role: role})
	})
}

func (s *GRPCClient) ListMembers(ctx context.Context, vaultID string) ([]api.Member, error) {
	resp, err := call(ctx, s, func(ctx context.Context) (*api.ListMembersResponse, error) {
		return s.client.ListMembers(ctx, &api.VaultRequest{VaultID: vaultID})
	})
	if err != nil {
		return nil, err
	}
	return resp.Members, nil
}

func (s *GRPCClient) ListVaultLogs(ctx context.Context, vaultID string, limit int) ([]api.AuditEntry, error) {
	resp, err := call(ctx, s, func(ctx context.Context) (*api.LogsResponse, error) {
		return s.client.ListVaultLogs(ctx, &api.LogsRequest{VaultID: vaultID, Limit: limit})
	})
	if err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

func (s *GRPCClient) ListAllLogs(ctx context.Context, limit int) ([]api.AuditEntry, error) {
	resp, err := call(ctx, s, func(ctx context.Context) (*api.LogsResponse, error) {
		return s.client.ListAllLogs(ctx, &api.LogsRequest{Limit: limit})
	})
	if err != nil {
		return nil, err
	}
	return resp.Logs, nil
}

func (s *GRPCClient) Dashboard(ctx context.Context) (*api.DashboardResponse, error) {
	return call(ctx, s, func(ctx context.Context) (*api.DashboardResponse, error) {
		return s.client.Dashboard(ctx, &api.Empty{})
	})
}

func (s *GRPCClient) ExportVaultLogs(ctx context.Context, vaultID string) (*api.ExportResponse, error) {
	return call(ctx, s, func(ctx context.Context) (*api.ExportResponse, error) {
		return s.client.ExportVaultLogs(ctx, &api.VaultRequest{VaultID: vaultID})
	})
}

// mapError turns a gRPC status back into the matching sentinel error.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	}

	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == common.ErrorDomain {
			return &remoteError{sentinel: common.ErrorOf(common.Kind(info.GetReason())), message: st.Message()}
		}
	}

	return fmt.Errorf("rpc error: %w", err)
}
