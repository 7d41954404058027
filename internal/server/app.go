// Package server wires the Cipher server: storage, token signing, TOTP,
// audit export storage, the services and the gRPC transport, and handles
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/cipher/internal/cryptox"
	"github.com/dmitrijs2005/cipher/internal/logging"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/config"
	"github.com/dmitrijs2005/cipher/internal/server/objectstore"
	"github.com/dmitrijs2005/cipher/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cipher/internal/server/services"
	"github.com/dmitrijs2005/cipher/internal/server/totp"
	"github.com/juju/clock"

	gs "github.com/dmitrijs2005/cipher/internal/server/grpc"
)

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	tokenService     *services.TokenService
	accountService   *services.AccountService
	twoFactorService *services.TwoFactorService
	vaultService     *services.VaultService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	sealer, err := cryptox.NewSealer(c.SealKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sealer init error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, c)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	clk := clock.WallClock
	signer := auth.NewSigner([]byte(c.SecretKey), clk)
	verifier := totp.NewVerifier(c.TOTPIssuer, clk)

	ts := services.NewTokenService(db, rm, signer, verifier, c.AccessTokenValidityDuration)
	as := services.NewAccountService(db, rm, clk)
	tf := services.NewTwoFactorService(db, rm, verifier, clk)
	vs := services.NewVaultService(services.VaultServiceDeps{
		DB:          db,
		Repomanager: rm,
		Tokens:      ts,
		Access:      services.NewAccessController(rm),
		Audit:       services.NewAuditRecorder(rm, clk),
		Sealer:      sealer,
		Store:       store,
		ExportTTL:   c.ExportLinkValidityDuration,
		Clock:       clk,
	})

	return &App{
		config:           c,
		logger:           logger,
		db:               db,
		tokenService:     ts,
		accountService:   as,
		twoFactorService: tf,
		vaultService:     vs,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.tokenService, app.accountService,
		app.twoFactorService, app.vaultService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}

	app.logger.Info(ctx, "Stopped")
}
