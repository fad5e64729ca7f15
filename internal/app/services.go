package app

import (
	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type Services struct {
	Dashboard dashboard.Usecases
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Dashboard: dashboard.New(dashboard.UsecasesDeps{
			Log:     log,
			LLM:     clients.LLM,
			Fetcher: clients.Fetcher,
			Config:  cfg.Dashboard,
		}),
	}
}
