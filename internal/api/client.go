package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client is the client stub of CipherService. Every call is sent with the
// JSON content-subtype.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts...)
}

func (c *Client) Register(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodRegister, in, opts...)
}

func (c *Client) Login(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *Client) CompleteSecondFactor(ctx context.Context, in *CodeRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodCompleteSecondFactor, in, opts...)
}

func (c *Client) Profile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodProfile, in, opts...)
}

func (c *Client) EnableSecondFactor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Enrollment, error) {
	return invoke[Enrollment](ctx, c.cc, MethodEnableSecondFactor, in, opts...)
}

func (c *Client) ConfirmSecondFactor(ctx context.Context, in *CodeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodConfirmSecondFactor, in, opts...)
}

func (c *Client) DisableSecondFactor(ctx context.Context, in *CodeRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDisableSecondFactor, in, opts...)
}

func (c *Client) CreateVault(ctx context.Context, in *CreateVaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodCreateVault, in, opts...)
}

func (c *Client) ListVaults(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListVaultsResponse, error) {
	return invoke[ListVaultsResponse](ctx, c.cc, MethodListVaults, in, opts...)
}

func (c *Client) GetVault(ctx context.Context, in *VaultRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodGetVault, in, opts...)
}

func (c *Client) CreateSecret(ctx context.Context, in *CreateSecretRequest, opts ...grpc.CallOption) (*Secret, error) {
	return invoke[Secret](ctx, c.cc, MethodCreateSecret, in, opts...)
}

func (c *Client) ListSecrets(ctx context.Context, in *VaultRequest, opts ...grpc.CallOption) (*ListSecretsResponse, error) {
	return invoke[ListSecretsResponse](ctx, c.cc, MethodListSecrets, in, opts...)
}

func (c *Client) ReadSecret(ctx context.Context, in *ReadSecretRequest, opts ...grpc.CallOption) (*SecretValue, error) {
	return invoke[SecretValue](ctx, c.cc, MethodReadSecret, in, opts...)
}

func (c *Client) AddMember(ctx context.Context, in *AddMemberRequest, opts ...grpc.CallOption) (*Member, error) {
	return invoke[Member](ctx, c.cc, MethodAddMember, in, opts...)
}

func (c *Client) ListMembers(ctx context.Context, in *VaultRequest, opts ...grpc.CallOption) (*ListMembersResponse, error) {
	return invoke[ListMembersResponse](ctx, c.cc, MethodListMembers, in, opts...)
}

func (c *Client) ListVaultLogs(ctx context.Context, in *LogsRequest, opts ...grpc.CallOption) (*LogsResponse, error) {
	return invoke[LogsResponse](ctx, c.cc, MethodListVaultLogs, in, opts...)
}

func (c *Client) ListAllLogs(ctx context.Context, in *LogsRequest, opts ...grpc.CallOption) (*LogsResponse, error) {
	return invoke[LogsResponse](ctx, c.cc, MethodListAllLogs, in, opts...)
}

func (c *Client) Dashboard(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*DashboardResponse, error) {
	return invoke[DashboardResponse](ctx, c.cc, MethodDashboard, in, opts...)
}

func (c *Client) ExportVaultLogs(ctx context.Context, in *VaultRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, MethodExportVaultLogs, in, opts...)
}
