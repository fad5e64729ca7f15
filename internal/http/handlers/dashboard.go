package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/http/response"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard"
	dgerrors "github.com/yungbote/dashgen-backend/internal/pkg/errors"
	"github.com/yungbote/dashgen-backend/internal/platform/apierr"
	"github.com/yungbote/dashgen-backend/internal/spreadsheet"
)

// DashboardService is satisfied by dashboard.Usecases.
type DashboardService interface {
	GenerateDashboard(ctx context.Context, in dashboard.GenerateInput) (domain.Dashboard, error)
	GenerateCSVDashboard(ctx context.Context, in dashboard.CSVInput) (domain.Dashboard, error)
	GenerateWidget(ctx context.Context, in dashboard.WidgetInput) (domain.Widget, error)
	Chat(ctx context.Context, in dashboard.ChatInput) (dashboard.ChatOutput, error)
}

type DashboardHandler struct {
	svc DashboardService
}

func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type generateDashboardReq struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Mode   string `json:"mode"`
}

// GET /api/generate-dashboard
func (h *DashboardHandler) Info(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"message":   "generate-dashboard API endpoint is working",
		"methods":   []string{http.MethodPost},
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// POST /api/generate-dashboard
func (h *DashboardHandler) GenerateDashboard(c *gin.Context) {
	var req generateDashboardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	d, err := h.svc.GenerateDashboard(c.Request.Context(), dashboard.GenerateInput{
		Prompt: req.Prompt,
		Model:  req.Model,
		Mode:   req.Mode,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "dashboard": d, "message": "Dashboard generated successfully"})
}

type csvDashboardReq struct {
	Prompt  string `json:"prompt"`
	CSVData string `json:"csv_data"`
	Model   string `json:"model"`
}

// POST /api/generate-csv-dashboard
//
// Accepts JSON {prompt, csv_data} or a multipart form with prompt and an
// uploaded CSV/XLSX file.
func (h *DashboardHandler) GenerateCSVDashboard(c *gin.Context) {
	var req csvDashboardReq
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		r, err := csvFromMultipart(c)
		if err != nil {
			response.RespondAPIError(c, err)
			return
		}
		req = r
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	d, err := h.svc.GenerateCSVDashboard(c.Request.Context(), dashboard.CSVInput{
		Prompt: req.Prompt,
		CSV:    req.CSVData,
		Model:  req.Model,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "dashboard": d, "message": "CSV dashboard generated successfully"})
}

func csvFromMultipart(c *gin.Context) (csvDashboardReq, error) {
	req := csvDashboardReq{
		Prompt:  c.PostForm("prompt"),
		CSVData: c.PostForm("csv_data"),
		Model:   c.PostForm("model"),
	}
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return req, apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	f, err := fh.Open()
	if err != nil {
		return req, apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return req, apierr.New(http.StatusBadRequest, "invalid_request", fmt.Errorf("read upload: %w", err))
	}
	text, err := spreadsheet.FromUpload(fh.Filename, data)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, dgerrors.ErrUnsupportedFile) && !errors.Is(err, dgerrors.ErrEmptyCSV) {
			status = http.StatusInternalServerError
		}
		return req, apierr.New(status, "invalid_file", err)
	}
	req.CSVData = text
	return req, nil
}

type singleWidgetReq struct {
	Prompt           string `json:"prompt"`
	WidgetType       string `json:"widget_type"`
	DashboardContext string `json:"dashboard_context"`
	CSVData          string `json:"csv_data"`
	Model            string `json:"model"`
}

// POST /api/generate-single-widget
func (h *DashboardHandler) GenerateSingleWidget(c *gin.Context) {
	var req singleWidgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	w, err := h.svc.GenerateWidget(c.Request.Context(), dashboard.WidgetInput{
		Prompt:           req.Prompt,
		WidgetType:       req.WidgetType,
		DashboardContext: req.DashboardContext,
		CSV:              req.CSVData,
		Model:            req.Model,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "widget": w, "message": "Widget generated successfully"})
}
