// Package server wires the DevConnector API together: configuration,
// logging, the credential store, auth primitives and the REST server, and
// runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/devconnector/internal/logging"
	"github.com/dmitrijs2005/devconnector/internal/server/auth"
	"github.com/dmitrijs2005/devconnector/internal/server/config"
	"github.com/dmitrijs2005/devconnector/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/devconnector/internal/server/rest"
	"github.com/dmitrijs2005/devconnector/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	gate        *auth.AccessGate
}

// NewApp validates cfg and builds every dependency. A missing secret or an
// unreachable database fails here, before anything is served.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, logOut)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	secret, err := auth.NewSecret(cfg.SecretKey)
	if err != nil {
		return nil, err
	}
	issuer, err := auth.NewTokenIssuer(secret)
	if err != nil {
		return nil, err
	}
	verifier, err := auth.NewTokenVerifier(secret)
	if err != nil {
		return nil, err
	}

	db, rm, err := repomanager.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher := auth.NewBcryptHasher(
		auth.WithCost(cfg.BcryptCost),
		auth.WithTimeout(cfg.HashTimeout),
		auth.WithConcurrency(cfg.HashConcurrency),
	)

	us, err := services.NewUserService(ctx, db, rm, hasher, issuer, cfg)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: us,
		gate:        auth.NewAccessGate(verifier),
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

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if strings.EqualFold(app.config.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.gate, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "REST server error", "error", err)
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"driver", app.config.DatabaseDriver, "token_ttl", app.config.TokenTTL.String())

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "error closing db", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}
