package app

import (
	"context"
	"fmt"

	"github.com/yungbote/dashgen-backend/internal/config"
	apphttp "github.com/yungbote/dashgen-backend/internal/http"
	"github.com/yungbote/dashgen-backend/internal/observability"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Clients  Clients
	Services Services
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
}

// New wires every dependency of the service. The caller owns log.
func New(ctx context.Context, log *logger.Logger, cfg *config.Config) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel, cfg.Env)
	metrics := observability.Init(log, cfg.Metrics.Enabled)

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	serviceset := wireServices(log, cfg, clientset)
	handlerset := wireHandlers(log, serviceset)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Clients:      clientset,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is canceled.
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
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
