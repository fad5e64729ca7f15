package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
	"github.com/yungbote/dashgen-backend/internal/platform/apierr"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
)

type toolHandler struct {
	log *logger.Logger
	svc Service
}

func (h *toolHandler) handleGenerateDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := h.svc.GenerateDashboard(ctx, dashboard.GenerateInput{
		Prompt: prompt,
		Mode:   request.GetString("mode", ""),
		Model:  request.GetString("model", ""),
	})
	if err != nil {
		return h.toolError("generate_dashboard", err), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleGenerateCSVDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	csv, err := request.RequireString("csv_data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := h.svc.GenerateCSVDashboard(ctx, dashboard.CSVInput{
		Prompt: prompt,
		CSV:    csv,
		Model:  request.GetString("model", ""),
	})
	if err != nil {
		return h.toolError("generate_csv_dashboard", err), nil
	}
	return jsonResult(d)
}

func (h *toolHandler) handleGenerateWidget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w, err := h.svc.GenerateWidget(ctx, dashboard.WidgetInput{
		Prompt:           prompt,
		WidgetType:       request.GetString("widget_type", ""),
		DashboardContext: request.GetString("dashboard_context", ""),
		Model:            request.GetString("model", ""),
	})
	if err != nil {
		return h.toolError("generate_widget", err), nil
	}
	return jsonResult(w)
}

func (h *toolHandler) toolError(tool string, err error) *mcp.CallToolResult {
	ae := apierr.As(err)
	h.log.Warn("tool call failed", "tool", tool, "code", ae.Code, "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s): %v", tool, ae.Code, ae))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}
