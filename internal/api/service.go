package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "cipher.v1.CipherService"

// Full method names, as seen by interceptors.
const (
	MethodPing                 = "/" + ServiceName + "/Ping"
	MethodRegister             = "/" + ServiceName + "/Register"
	MethodLogin                = "/" + ServiceName + "/Login"
	MethodCompleteSecondFactor = "/" + ServiceName + "/CompleteSecondFactor"
	MethodProfile              = "/" + ServiceName + "/Profile"
	MethodEnableSecondFactor   = "/" + ServiceName + "/EnableSecondFactor"
	MethodConfirmSecondFactor  = "/" + ServiceName + "/ConfirmSecondFactor"
	MethodDisableSecondFactor  = "/" + ServiceName + "/DisableSecondFactor"
	MethodCreateVault          = "/" + ServiceName + "/CreateVault"
	MethodListVaults           = "/" + ServiceName + "/ListVaults"
	MethodGetVault             = "/" + ServiceName + "/GetVault"
	MethodCreateSecret         = "/" + ServiceName + "/CreateSecret"
	MethodListSecrets          = "/" + ServiceName + "/ListSecrets"
	MethodReadSecret           = "/" + ServiceName + "/ReadSecret"
	MethodAddMember            = "/" + ServiceName + "/AddMember"
	MethodListMembers          = "/" + ServiceName + "/ListMembers"
	MethodListVaultLogs        = "/" + ServiceName + "/ListVaultLogs"
	MethodListAllLogs          = "/" + ServiceName + "/ListAllLogs"
	MethodDashboard            = "/" + ServiceName + "/Dashboard"
	MethodExportVaultLogs      = "/" + ServiceName + "/ExportVaultLogs"
)

// CipherServiceServer is implemented by the server transport.
type CipherServiceServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	Register(context.Context, *CredentialsRequest) (*Account, error)
	Login(context.Context, *CredentialsRequest) (*TokenResponse, error)
	CompleteSecondFactor(context.Context, *CodeRequest) (*TokenResponse, error)
	Profile(context.Context, *Empty) (*Account, error)
	EnableSecondFactor(context.Context, *Empty) (*Enrollment, error)
	ConfirmSecondFactor(context.Context, *CodeRequest) (*Empty, error)
	DisableSecondFactor(context.Context, *CodeRequest) (*Empty, error)
	CreateVault(context.Context, *CreateVaultRequest) (*Vault, error)
	ListVaults(context.Context, *Empty) (*ListVaultsResponse, error)
	GetVault(context.Context, *VaultRequest) (*Vault, error)
	CreateSecret(context.Context, *CreateSecretRequest) (*Secret, error)
	ListSecrets(context.Context, *VaultRequest) (*ListSecretsResponse, error)
	ReadSecret(context.Context, *ReadSecretRequest) (*SecretValue, error)
	AddMember(context.Context, *AddMemberRequest) (*Member, error)
	ListMembers(context.Context, *VaultRequest) (*ListMembersResponse, error)
	ListVaultLogs(context.Context, *LogsRequest) (*LogsResponse, error)
	ListAllLogs(context.Context, *LogsRequest) (*LogsResponse, error)
	Dashboard(context.Context, *Empty) (*DashboardResponse, error)
	ExportVaultLogs(context.Context, *VaultRequest) (*ExportResponse, error)
}

// UnimplementedCipherServiceServer answers every call with Unimplemented.
type UnimplementedCipherServiceServer struct{}

func (UnimplementedCipherServiceServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}

func (UnimplementedCipherServiceServer) Register(context.Context, *CredentialsRequest) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}

func (UnimplementedCipherServiceServer) Login(context.Context, *CredentialsRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}

func (UnimplementedCipherServiceServer) CompleteSecondFactor(context.Context, *CodeRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompleteSecondFactor not implemented")
}

func (UnimplementedCipherServiceServer) Profile(context.Context, *Empty) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method Profile not implemented")
}

func (UnimplementedCipherServiceServer) EnableSecondFactor(context.Context, *Empty) (*Enrollment, error) {
	return nil, status.Error(codes.Unimplemented, "method EnableSecondFactor not implemented")
}

func (UnimplementedCipherServiceServer) ConfirmSecondFactor(context.Context, *CodeRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ConfirmSecondFactor not implemented")
}

func (UnimplementedCipherServiceServer) DisableSecondFactor(context.Context, *CodeRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DisableSecondFactor not implemented")
}

func (UnimplementedCipherServiceServer) CreateVault(context.Context, *CreateVaultRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateVault not implemented")
}

func (UnimplementedCipherServiceServer) ListVaults(context.Context, *Empty) (*ListVaultsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListVaults not implemented")
}

func (UnimplementedCipherServiceServer) GetVault(context.Context, *VaultRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method GetVault not implemented")
}

func (UnimplementedCipherServiceServer) CreateSecret(context.Context, *CreateSecretRequest) (*Secret, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateSecret not implemented")
}

func (UnimplementedCipherServiceServer) ListSecrets(context.Context, *VaultRequest) (*ListSecretsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSecrets not implemented")
}

func (UnimplementedCipherServiceServer) ReadSecret(context.Context, *ReadSecretRequest) (*SecretValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ReadSecret not implemented")
}

func (UnimplementedCipherServiceServer) AddMember(context.Context, *AddMemberRequest) (*Member, error) {
	return nil, status.Error(codes.Unimplemented, "method AddMember not implemented")
}

func (UnimplementedCipherServiceServer) ListMembers(context.Context, *VaultRequest) (*ListMembersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMembers not implemented")
}

func (UnimplementedCipherServiceServer) ListVaultLogs(context.Context, *LogsRequest) (*LogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListVaultLogs not implemented")
}

func (UnimplementedCipherServiceServer) ListAllLogs(context.Context, *LogsRequest) (*LogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAllLogs not implemented")
}

func (UnimplementedCipherServiceServer) Dashboard(context.Context, *Empty) (*DashboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Dashboard not implemented")
}

func (UnimplementedCipherServiceServer) ExportVaultLogs(context.Context, *VaultRequest) (*ExportResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportVaultLogs not implemented")
}

// unary builds the method descriptor for one call, running it through the
// server's interceptor chain.
func unary[Req, Resp any](name string, call func(CipherServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(CipherServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CipherServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", CipherServiceServer.Ping),
		unary("Register", CipherServiceServer.Register),
		unary("Login", CipherServiceServer.Login),
		unary("CompleteSecondFactor", CipherServiceServer.CompleteSecondFactor),
		unary("Profile", CipherServiceServer.Profile),
		unary("EnableSecondFactor", CipherServiceServer.EnableSecondFactor),
		unary("ConfirmSecondFactor", CipherServiceServer.ConfirmSecondFactor),
		unary("DisableSecondFactor", CipherServiceServer.DisableSecondFactor),
		unary("CreateVault", CipherServiceServer.CreateVault),
		unary("ListVaults", CipherServiceServer.ListVaults),
		unary("GetVault", CipherServiceServer.GetVault),
		unary("CreateSecret", CipherServiceServer.CreateSecret),
		unary("ListSecrets", CipherServiceServer.ListSecrets),
		unary("ReadSecret", CipherServiceServer.ReadSecret),
		unary("AddMember", CipherServiceServer.AddMember),
		unary("ListMembers", CipherServiceServer.ListMembers),
		unary("ListVaultLogs", CipherServiceServer.ListVaultLogs),
		unary("ListAllLogs", CipherServiceServer.ListAllLogs),
		unary("Dashboard", CipherServiceServer.Dashboard),
		unary("ExportVaultLogs", CipherServiceServer.ExportVaultLogs),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cipher/v1/service",
}

func RegisterCipherServiceServer(s grpc.ServiceRegistrar, srv CipherServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
