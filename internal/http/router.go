package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/dashgen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/dashgen-backend/internal/http/middleware"
	"github.com/yungbote/dashgen-backend/internal/observability"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type RouterConfig struct {
	HealthHandler    *httpH.HealthHandler
	DashboardHandler *httpH.DashboardHandler
	ChatHandler      *httpH.ChatHandler

	Log     *logger.Logger
	Metrics *observability.Metrics

	// ServiceName enables otelgin spans when non-empty.
	ServiceName     string
	CORSOrigins     []string
	MaxRequestBytes int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Dashboards
		if cfg.DashboardHandler != nil {
			api.GET("/generate-dashboard", cfg.DashboardHandler.Info)
			api.POST("/generate-dashboard", cfg.DashboardHandler.GenerateDashboard)
			api.POST("/generate-csv-dashboard", cfg.DashboardHandler.GenerateCSVDashboard)
			api.POST("/generate-single-widget", cfg.DashboardHandler.GenerateSingleWidget)
		}
	}

	// Chat
	if cfg.ChatHandler != nil {
		r.POST("/chat", cfg.ChatHandler.Chat)
	}

	return r
}
