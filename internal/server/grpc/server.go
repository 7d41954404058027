package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/cipher/internal/api"
	"github.com/dmitrijs2005/cipher/internal/logging"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/models"
	"github.com/dmitrijs2005/cipher/internal/server/services"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
	"google.golang.org/grpc"
)

type tokenSvc interface {
	Login(ctx context.Context, email, password string) (*services.IssuedToken, error)
	CompleteSecondFactor(ctx context.Context, pendingToken, code string) (*services.IssuedToken, error)
	VerifyFull(token string) (*auth.Claims, error)
	VerifyPending(token string) (*auth.Claims, error)
}

type accountSvc interface {
	Register(ctx context.Context, email, password string) (*models.Account, error)
	Profile(ctx context.Context, accountID string) (*models.Account, error)
}

type twoFactorSvc interface {
	Enable(ctx context.Context, accountID string) (*totp.Enrollment, error)
	Confirm(ctx context.Context, accountID, code string) error
	Disable(ctx context.Context, accountID, code string) error
}

type vaultSvc interface {
	CreateVault(ctx context.Context, accountID, name string, description *string) (*models.VaultSummary, error)
	ListVaults(ctx context.Context, accountID string) ([]models.VaultSummary, error)
	GetVault(ctx context.Context, accountID, vaultID string) (*models.VaultSummary, error)
	CreateSecret(ctx context.Context, accountID, vaultID, name string, description *string, value string) (*models.Secret, error)
	ListSecrets(ctx context.Context, accountID, vaultID string) ([]models.Secret, error)
	ReadSecret(ctx context.Context, accountID, vaultID, secretID string) (*services.SecretValue, error)
	AddMember(ctx context.Context, accountID, vaultID, email, role string) (*models.Membership, error)
	ListMembers(ctx context.Context, accountID, vaultID string) ([]models.Membership, error)
	ListVaultLogs(ctx context.Context, accountID, vaultID string, limit int) ([]models.AuditRecord, error)
	ListAllLogs(ctx context.Context, accountID string, limit int) ([]models.AuditRecord, error)
	Dashboard(ctx context.Context, accountID string) (*services.Dashboard, error)
	ExportVaultLogs(ctx context.Context, accountID, vaultID string) (*services.LogExport, error)
}

type GRPCServer struct {
	api.UnimplementedCipherServiceServer
	address  string
	logger   logging.Logger
	tokens   tokenSvc
	accounts accountSvc
	twofa    twoFactorSvc
	vaults   vaultSvc
}

func NewGRPCServer(a string, l logging.Logger, ts *services.TokenService, as *services.AccountService,
	tf *services.TwoFactorService, vs *services.VaultService) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		tokens:   ts,
		accounts: as,
		twofa:    tf,
		vaults:   vs,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.errorInterceptor, s.accessTokenInterceptor))
	api.RegisterCipherServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
