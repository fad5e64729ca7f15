package app

import (
	httpH "github.com/yungbote/dashgen-backend/internal/http/handlers"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Dashboard *httpH.DashboardHandler
	Chat      *httpH.ChatHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Dashboard: httpH.NewDashboardHandler(services.Dashboard),
		Chat:      httpH.NewChatHandler(services.Dashboard),
	}
}
