package api

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type echoServer struct {
	UnimplementedCipherServiceServer
	seen string
}

func (e *echoServer) CreateVault(_ context.Context, req *CreateVaultRequest) (*Vault, error) {
	e.seen = req.Name
	return &Vault{ID: "v-1", Name: req.Name, Role: "owner", CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func serve(t *testing.T, impl CipherServiceServer, opts ...grpc.ServerOption) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(opts...)
	RegisterCipherServiceServer(srv, impl)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func TestCodecRegistered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, "json", c.Name())
}

func TestServiceDesc_RoundTrip(t *testing.T) {
	impl := &echoServer{}
	c := serve(t, impl)

	v, err := c.CreateVault(context.Background(), &CreateVaultRequest{Name: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, "Finance", impl.seen)
	assert.Equal(t, "v-1", v.ID)
	assert.Equal(t, 2025, v.CreatedAt.Year())
}

func TestServiceDesc_Unimplemented(t *testing.T) {
	c := serve(t, &echoServer{})

	_, err := c.ReadSecret(context.Background(), &ReadSecretRequest{VaultID: "v", SecretID: "s"})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestServiceDesc_InterceptorSeesFullMethod(t *testing.T) {
	var method string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		method = info.FullMethod
		return handler(ctx, req)
	}
	c := serve(t, &echoServer{}, grpc.UnaryInterceptor(icpt))

	_, err := c.CreateVault(context.Background(), &CreateVaultRequest{Name: "x"})
	require.NoError(t, err)
	assert.Equal(t, MethodCreateVault, method)
	assert.Len(t, ServiceDesc.Methods, 20)
}
