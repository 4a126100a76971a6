package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/pukpuk-backend/internal/data/db"
	"github.com/yungbote/pukpuk-backend/internal/http"
	"github.com/yungbote/pukpuk-backend/internal/observability"
	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Gateway  db.Gateway
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server

	migrate      func(ctx context.Context) error
	otelShutdown func(context.Context) error
}

func NewLogger(cfg Config) (*logger.Logger, error) {
	return logger.NewWithOptions(logger.Options{
		Mode:     cfg.LogMode,
		File:     cfg.LogFile,
		Redact:   true,
		HashSalt: cfg.LogHashSalt,
	})
}

// New connects the configured store and wires every layer. A store that
// cannot be reached aborts startup; the gateway never retries.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if log == nil {
		return nil, errors.New("app: logger required")
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.OtelServiceName,
		Environment: cfg.OtelEnvironment,
		Version:     Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     cfg.OtelHeaders,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})

	st, err := wireStore(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}

	clientset, err := wireClients(log, cfg)
	if err != nil {
		_ = st.gateway.Close(ctx)
		_ = otelShutdown(ctx)
		return nil, err
	}

	serviceset := wireServices(log, cfg, st.repos, clientset)
	handlerset := wireHandlers(log, serviceset, st.gateway)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Gateway:      st.gateway,
		Clients:      clientset,
		Repos:        st.repos,
		Services:     serviceset,
		Server:       server,
		migrate:      st.migrate,
		otelShutdown: otelShutdown,
	}, nil
}

// Migrate creates tables (SQL) or indexes (Mongo). It is idempotent.
func (a *App) Migrate(ctx context.Context) error {
	if a == nil || a.migrate == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.migrate(ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", a.Cfg.DBDriver, err)
	}
	a.Log.Info("Schema up to date", "driver", a.Cfg.DBDriver)
	return nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.Gateway != nil {
		if err := a.Gateway.Close(ctx); err != nil && !errors.Is(err, db.ErrClosed) {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	a.Log.Sync()
}
