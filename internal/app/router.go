package app

import (
	"strings"

	"github.com/yungbote/dashgen-backend/internal/config"
	apphttp "github.com/yungbote/dashgen-backend/internal/http"
	"github.com/yungbote/dashgen-backend/internal/observability"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg *config.Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = strings.TrimSpace(cfg.Otel.ServiceName)
		if serviceName == "" {
			serviceName = "dashgen-backend"
		}
	}
	return apphttp.NewServer(log, cfg.HTTP, apphttp.RouterConfig{
		HealthHandler:    handlers.Health,
		DashboardHandler: handlers.Dashboard,
		ChatHandler:      handlers.Chat,
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		MaxRequestBytes:  cfg.HTTP.MaxRequestBytes,
	})
}
