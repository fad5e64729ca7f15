package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/dashgen-backend/internal/config"
	domain "github.com/yungbote/dashgen-backend/internal/domain/dashboard"
	"github.com/yungbote/dashgen-backend/internal/llm"
	"github.com/yungbote/dashgen-backend/internal/llm/router"
	"github.com/yungbote/dashgen-backend/internal/modules/dashboard/prompts"
	"github.com/yungbote/dashgen-backend/internal/observability"
	dgerrors "github.com/yungbote/dashgen-backend/internal/pkg/errors"
	"github.com/yungbote/dashgen-backend/internal/platform/apierr"
	"github.com/yungbote/dashgen-backend/internal/platform/ctxutil"
	"github.com/yungbote/dashgen-backend/internal/platform/logger"
	"github.com/yungbote/dashgen-backend/internal/spreadsheet"
)

// Mode selects how widgets get their data.
type Mode string

const (
	// ModeAPI asks the model for source URLs and fetches each one.
	ModeAPI Mode = "api"
	// ModeResearch asks the model to embed researched data in each widget.
	ModeResearch Mode = "research"
)

// ParseMode defaults to research.
func ParseMode(s string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeResearch:
		return ModeResearch, true
	case ModeAPI:
		return ModeAPI, true
	default:
		return "", false
	}
}

type UsecasesDeps struct {
	Log     *logger.Logger
	LLM     llm.Engine
	Fetcher SourceFetcher
	Config  config.DashboardConfig
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type GenerateInput struct {
	Prompt string
	Model  string
	Mode   string
}

type CSVInput struct {
	Prompt string
	CSV    string
	Model  string
}

type WidgetInput struct {
	Prompt           string
	WidgetType       string
	DashboardContext string
	CSV              string
	Model            string
}

type ChatInput struct {
	Prompt string
	Model  string
}

type ChatOutput struct {
	Response string
	Model    string
}

// GenerateDashboard runs the api or research flow for a free-text prompt.
func (u Usecases) GenerateDashboard(ctx context.Context, in GenerateInput) (domain.Dashboard, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return domain.Dashboard{}, apierr.New(http.StatusBadRequest, "invalid_request", dgerrors.ErrEmptyPrompt)
	}
	mode, ok := ParseMode(in.Mode)
	if !ok {
		return domain.Dashboard{}, apierr.BadRequest(fmt.Sprintf("unknown mode %q", in.Mode))
	}

	var (
		name       prompts.PromptName
		model      string
		dataSource string
		label      string
	)
	switch mode {
	case ModeAPI:
		name, model, dataSource = prompts.PromptDashboardAPI, u.deps.Config.APIModel, domain.DataSourceAPI
	default:
		name, model, dataSource, label = prompts.PromptDashboardResearch, u.deps.Config.ResearchModel, domain.DataSourceResearch, domain.SourceAIResearch
	}
	model = pickModel(in.Model, model)

	return u.buildDashboard(ctx, name, prompts.Input{Prompt: prompt}, model, dataSource, label)
}

// GenerateCSVDashboard builds a dashboard from CSV text. The model sees at most
// Config.CSVPreviewChars characters of it.
func (u Usecases) GenerateCSVDashboard(ctx context.Context, in CSVInput) (domain.Dashboard, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return domain.Dashboard{}, apierr.New(http.StatusBadRequest, "invalid_request", dgerrors.ErrEmptyPrompt)
	}
	csv := strings.TrimSpace(in.CSV)
	if csv == "" {
		return domain.Dashboard{}, apierr.New(http.StatusBadRequest, "invalid_request", dgerrors.ErrEmptyCSV)
	}
	rows, cols := spreadsheet.Shape(csv)
	u.deps.Log.Debug("csv dashboard input", "rows", rows, "cols", cols, "chars", len(csv))

	pin := prompts.Input{Prompt: prompt, CSVPreview: spreadsheet.Preview(csv, u.deps.Config.CSVPreviewChars)}
	model := pickModel(in.Model, u.deps.Config.CSVModel)
	return u.buildDashboard(ctx, prompts.PromptDashboardCSV, pin, model, domain.DataSourceCSV, domain.SourceCSVAnalysis)
}

func (u Usecases) buildDashboard(ctx context.Context, name prompts.PromptName, pin prompts.Input, model, dataSource, label string) (domain.Dashboard, error) {
	raw, err := u.complete(ctx, name, pin, model)
	if err != nil {
		return domain.Dashboard{}, err
	}
	spec, err := ParseSpec(raw)
	if err != nil {
		return domain.Dashboard{}, specError(err, raw)
	}

	resolver := NewResolver(u.deps.Log, u.deps.Fetcher, label)
	orch := NewOrchestrator(u.deps.Log, resolver, u.deps.Config.Workers)
	return orch.Build(ctx, spec, BuildMeta{DataSource: dataSource, ModelUsed: model}), nil
}

// GenerateWidget asks the model for one widget and resolves its data.
func (u Usecases) GenerateWidget(ctx context.Context, in WidgetInput) (domain.Widget, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return domain.Widget{}, apierr.New(http.StatusBadRequest, "invalid_request", dgerrors.ErrEmptyPrompt)
	}
	wt := strings.ToLower(strings.TrimSpace(in.WidgetType))
	if wt != "" {
		if _, ok := domain.ParseChartType(wt); !ok {
			return domain.Widget{}, apierr.BadRequest(fmt.Sprintf("unknown widget type %q", in.WidgetType))
		}
	}

	csv := strings.TrimSpace(in.CSV)
	pin := prompts.Input{
		Prompt:           prompt,
		WidgetType:       wt,
		DashboardContext: strings.TrimSpace(in.DashboardContext),
		CSVPreview:       spreadsheet.Preview(csv, u.deps.Config.WidgetCSVPreviewChars),
	}
	model := pickModel(in.Model, u.deps.Config.WidgetModel)

	raw, err := u.complete(ctx, prompts.PromptSingleWidget, pin, model)
	if err != nil {
		return domain.Widget{}, err
	}
	decl, err := ParseWidget(raw)
	if err != nil {
		return domain.Widget{}, specError(err, raw)
	}

	label, dataSource := domain.SourceAIResearch, domain.DataSourceResearch
	if csv != "" {
		label, dataSource = domain.SourceCSVAnalysis, domain.DataSourceCSV
	}
	w := NewResolver(u.deps.Log, u.deps.Fetcher, label).Resolve(ctx, decl)
	return domain.Widget{
		ResolvedWidget: w,
		GeneratedAt:    epochSeconds(time.Now()),
		DataSource:     dataSource,
		ModelUsed:      model,
	}, nil
}

// Chat returns the model's raw answer to the api-variant prompt without
// parsing it.
func (u Usecases) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return ChatOutput{}, apierr.New(http.StatusBadRequest, "invalid_request", dgerrors.ErrEmptyPrompt)
	}
	model := pickModel(in.Model, u.deps.Config.ChatModel)
	p, err := prompts.Build(prompts.PromptDashboardAPI, prompts.Input{Prompt: prompt})
	if err != nil {
		return ChatOutput{}, apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	raw, err := u.generate(ctx, p, model, "chat")
	if err != nil {
		return ChatOutput{}, err
	}
	return ChatOutput{Response: raw, Model: model}, nil
}

func (u Usecases) complete(ctx context.Context, name prompts.PromptName, pin prompts.Input, model string) (string, error) {
	p, err := prompts.Build(name, pin)
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_request", err)
	}
	return u.generate(ctx, p, model, string(name))
}

func (u Usecases) generate(ctx context.Context, p prompts.Prompt, model, purpose string) (string, error) {
	if u.deps.LLM == nil {
		return "", apierr.New(http.StatusInternalServerError, "not_configured", llm.ErrNotConfigured)
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "dashboard.model_call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", model),
		attribute.String("llm.purpose", purpose),
		attribute.String("prompt.name", p.Name),
		attribute.Int("prompt.version", p.Version),
	)

	log := u.deps.Log.With(ctxutil.LogFields(ctx)...)
	start := time.Now()
	raw, err := u.deps.LLM.GenerateText(ctx, model, []llm.Message{
		{Role: "system", Content: p.System},
		{Role: "user", Content: p.User},
	}, llm.GenerateOptions{
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		JSON:        p.JSON,
		Purpose:     purpose,
	})
	observability.Current().ObserveLLMRequest(model, purpose, llmOutcome(err), time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn("model call failed", "model", model, "purpose", purpose, "kind", string(llm.KindOf(err)), "error", err)
		return "", modelError(err)
	}
	log.Info("model call complete",
		"model", model,
		"purpose", purpose,
		"prompt_fingerprint", p.Fingerprint()[:12],
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(raw),
	)
	return raw, nil
}

func llmOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, router.ErrUnknownModel) {
		return "unknown_model"
	}
	return string(llm.KindOf(err))
}

func pickModel(requested, fallback string) string {
	if m := strings.TrimSpace(requested); m != "" {
		return m
	}
	return fallback
}

func modelError(err error) error {
	switch {
	case errors.Is(err, router.ErrUnknownModel):
		return apierr.New(http.StatusBadRequest, "unknown_model", err)
	case errors.Is(err, llm.ErrNotConfigured):
		return apierr.New(http.StatusInternalServerError, "not_configured", err)
	}
	switch llm.KindOf(err) {
	case llm.KindAuth:
		return apierr.New(http.StatusUnauthorized, "upstream_auth", err)
	case llm.KindRateLimit:
		return apierr.New(http.StatusTooManyRequests, "upstream_rate_limited", err)
	case llm.KindUpstream, llm.KindNetwork:
		return apierr.New(http.StatusBadGateway, "upstream_error", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
}

func specError(err error, raw string) error {
	var pe *SpecParseError
	switch {
	case errors.As(err, &pe):
		return apierr.WithRaw(http.StatusInternalServerError, "invalid_model_output", err, raw)
	case errors.Is(err, ErrMissingWidgets):
		return apierr.WithRaw(http.StatusInternalServerError, "missing_widgets", err, raw)
	case errors.Is(err, ErrInvalidWidget):
		return apierr.WithRaw(http.StatusInternalServerError, "invalid_widget", err, raw)
	default:
		return apierr.WithRaw(http.StatusInternalServerError, "internal_error", err, raw)
	}
}
