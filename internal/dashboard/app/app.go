package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/phishguard/dashboard/internal/dashboard/http"
	"github.com/phishguard/dashboard/internal/dashboard/service"
	"github.com/phishguard/dashboard/internal/dashboard/store"
	"github.com/phishguard/dashboard/internal/dashboard/store/drivers/sqlite"
	"github.com/phishguard/dashboard/pkg/jwtx"
	"github.com/phishguard/dashboard/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the dashboard companion service with all its
// dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.EdDSASigner

	// Services
	userService  *service.UserService
	vault        *service.CodeVault
	tokenService *service.TokenService
	rateLimiter  *service.RateLimiter
	registry     *service.SessionRegistry
	housekeeping *service.Housekeeping

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "dashboard-companion",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := InitSigningKey(cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.signer = signer

	app.initServices()
	app.initHTTP()

	if err := app.userService.Bootstrap(
		context.Background(),
		cfg.BootstrapEmail,
		cfg.BootstrapName,
		cfg.BootstrapPassword,
	); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("dashboard companion service starting",
		"port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down dashboard companion service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("dashboard companion service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}

	app.vault = &service.CodeVault{
		Store:   app.db,
		CodeTTL: app.cfg.CodeTTL,
	}

	app.tokenService = &service.TokenService{
		Signer:     app.signer,
		Issuer:     app.cfg.Issuer,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}

	app.rateLimiter = &service.RateLimiter{Store: app.db}

	app.registry = &service.SessionRegistry{
		Store:          app.db,
		LivenessWindow: app.cfg.LivenessWindow,
	}

	app.housekeeping = &service.Housekeeping{
		Store:    app.db,
		Logger:   app.logger,
		Interval: app.cfg.HousekeepingInterval,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	verifier := jwtx.NewVerifierEdDSA(
		app.signer.KID(),
		app.signer.Public(),
		app.cfg.Issuer,
	)

	router := httpapi.NewRouter(verifier, BuildVersion, app.db, app.logger)
	router.UserService = app.userService
	router.Vault = app.vault
	router.TokenService = app.tokenService
	router.RateLimiter = app.rateLimiter
	router.Registry = app.registry
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
