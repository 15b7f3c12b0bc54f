// Package app provides the top-level application orchestrator that wires
// together every subsystem of the semantic SQL proxy: configuration (A1),
// the semantic model store (C1), dialect mapping (C2), the AST transformer
// (C4), the query dispatcher (C5), the backend client (C7), the
// authentication table (A2), the audit log (A3), and finally the wire
// server (A4) that ties them to a listening TCP port.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Pushkarm029/postgres-proxy-server/internal/audit"
	"github.com/Pushkarm029/postgres-proxy-server/internal/auth"
	"github.com/Pushkarm029/postgres-proxy-server/internal/backend"
	_ "github.com/Pushkarm029/postgres-proxy-server/internal/backend/postgres"
	_ "github.com/Pushkarm029/postgres-proxy-server/internal/backend/snowflake"
	"github.com/Pushkarm029/postgres-proxy-server/internal/config"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dialect"
	"github.com/Pushkarm029/postgres-proxy-server/internal/dispatch"
	"github.com/Pushkarm029/postgres-proxy-server/internal/semantic"
	"github.com/Pushkarm029/postgres-proxy-server/internal/transform"
	"github.com/Pushkarm029/postgres-proxy-server/internal/wire"
)

// App is the central orchestrator. It owns the lifecycle of every
// subsystem and exposes Start/Stop to the CLI layer.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	store      semantic.Store
	be         backend.Backend
	auditLog   *audit.Logger
	wireServer *wire.Server
}

// New creates an App from a loaded Config. It does not open connections or
// start listening — call Start for that.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Start resolves the semantic model store, opens the backend connection,
// and parses the auth table, leaving the App ready for Serve. It does not
// itself listen on a socket — mirroring the convention of building every
// subsystem up front and running the blocking accept loop as a distinct,
// later step that the caller controls.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("starting proxy",
		slog.String("data_store", a.cfg.DataStore),
		slog.String("semantic_model_store", a.cfg.SemanticModelStore))

	store, err := a.loadStore(ctx)
	if err != nil {
		return fmt.Errorf("app: loading semantic model store: %w", err)
	}
	a.store = store
	a.logger.Info("semantic model store ready", slog.Any("models", a.store.ListModels(ctx)))

	be, err := backend.Open(ctx, a.cfg.DataStore, a.cfg.BackendConnectionConfig())
	if err != nil {
		return fmt.Errorf("app: opening backend: %w", err)
	}
	a.be = be
	a.logger.Info("backend connected", slog.String("driver", be.DriverName()),
		slog.String("dsn", backend.SanitizeDSN(a.cfg.BackendConnectionConfig().DSN)))

	authTable, err := auth.Parse(a.cfg.Auth)
	if err != nil {
		return fmt.Errorf("app: parsing AUTH: %w", err)
	}

	d := dialect.For(a.cfg.DataStore)
	tr := transform.New(a.store, d)
	dispatcher := dispatch.New(tr, a.be, a.cfg.QueryTimeout)

	a.auditLog = audit.NewLogger(true, a.logger)
	a.wireServer = wire.New(a.cfg.ServerHost, a.cfg.ServerPort, authTable, dispatcher, a.auditLog, a.logger)

	a.logger.Info("proxy ready",
		slog.String("addr", fmt.Sprintf("%s:%d", a.cfg.ServerHost, a.cfg.ServerPort)),
		slog.String("driver", be.DriverName()))
	return nil
}

// Serve runs the wire server's accept loop until ctx is cancelled. Call
// after Start succeeds.
func (a *App) Serve(ctx context.Context) error {
	return a.wireServer.ListenAndServe(ctx)
}

// Stop releases the backend connection pool. The wire server itself stops
// via the ctx cancellation passed to Serve; Stop only releases resources
// Start opened that ctx cancellation does not touch.
func (a *App) Stop() error {
	a.logger.Info("stopping proxy")
	if a.be != nil {
		a.be.Close()
	}
	return nil
}

func (a *App) loadStore(ctx context.Context) (semantic.Store, error) {
	if a.cfg.SemanticModelStore == "s3" {
		return semantic.NewRemoteStore(ctx, a.cfg.Tenant, a.cfg.S3BucketName, a.logger)
	}
	return semantic.LoadLocalStore(a.cfg.JSONPath, a.logger)
}
