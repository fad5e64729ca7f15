// Package mcp exposes dashboard generation as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

// Service is satisfied by dashboard.Usecases.
type Service interface {
	GenerateDashboard(ctx context.Context, in dashboard.GenerateInput) (domain.Dashboard, error)
	GenerateCSVDashboard(ctx context.Context, in dashboard.CSVInput) (domain.Dashboard, error)
	GenerateWidget(ctx context.Context, in dashboard.WidgetInput) (domain.Widget, error)
}

// NewMCPServer registers the dashboard tools without starting a transport.
func NewMCPServer(log *logger.Logger, svc Service, version string) *server.MCPServer {
	if log == nil {
		log = logger.Nop()
	}
	s := server.NewMCPServer(
		"dashgen",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{log: log.With("component", "MCPServer"), svc: svc}

	s.AddTool(mcp.NewTool("generate_dashboard",
		mcp.WithDescription("Generate a dashboard of bar, line and number widgets for a topic."),
		mcp.WithString("prompt", mcp.Description("Topic or question the dashboard should answer."), mcp.Required()),
		mcp.WithString("mode", mcp.Description("research embeds researched data; api fetches each widget's source URL. Defaults to research."), mcp.Enum("research", "api")),
		mcp.WithString("model", mcp.Description("Model id override.")),
	), h.handleGenerateDashboard)

	s.AddTool(mcp.NewTool("generate_csv_dashboard",
		mcp.WithDescription("Generate a dashboard that summarizes CSV text."),
		mcp.WithString("prompt", mcp.Description("What the dashboard should show."), mcp.Required()),
		mcp.WithString("csv_data", mcp.Description("CSV text including the header row."), mcp.Required()),
		mcp.WithString("model", mcp.Description("Model id override.")),
	), h.handleGenerateCSVDashboard)

	s.AddTool(mcp.NewTool("generate_widget",
		mcp.WithDescription("Generate a single widget."),
		mcp.WithString("prompt", mcp.Description("What the widget should show."), mcp.Required()),
		mcp.WithString("widget_type", mcp.Description("Preferred chart type."), mcp.Enum("bar", "line", "number")),
		mcp.WithString("dashboard_context", mcp.Description("Name or topic of the surrounding dashboard.")),
		mcp.WithString("model", mcp.Description("Model id override.")),
	), h.handleGenerateWidget)

	return s
}

// ServeStdio blocks serving the tools over stdin/stdout.
func ServeStdio(log *logger.Logger, svc Service, version string) error {
	return server.ServeStdio(NewMCPServer(log, svc, version))
}
