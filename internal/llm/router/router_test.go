package router

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/llm"
)

func TestNewBuildsEveryEngineType(t *testing.T) {
	cfg := &config.Config{Models: []config.ModelConfig{
		{ID: "mock-1", Engine: config.EngineConfig{Type: "mock"}},
		{ID: "sonar", UpstreamModel: "sonar-pro", Engine: config.EngineConfig{Type: "oai_http", BaseURL: "http://upstream"}},
		{ID: "gemini-2.5-flash", Engine: config.EngineConfig{Type: "gemini"}},
	}}
	r, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	models := r.ListModels()
	if len(models) != 3 || models[0] != "gemini-2.5-flash" {
		t.Fatalf("models=%v", models)
	}
	route, ok := r.RouteForModel(" sonar ")
	if !ok || route.UpstreamModel != "sonar-pro" || route.EngineType != "oai_http" {
		t.Fatalf("route=%+v ok=%v", route, ok)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	bad := []*config.Config{
		{Models: []config.ModelConfig{{ID: "", Engine: config.EngineConfig{Type: "mock"}}}},
		{Models: []config.ModelConfig{{ID: "x", Engine: config.EngineConfig{Type: "mock"}}, {ID: "x", Engine: config.EngineConfig{Type: "mock"}}}},
		{Models: []config.ModelConfig{{ID: "x", Engine: config.EngineConfig{Type: "bogus"}}}},
	}
	for i, cfg := range bad {
		if _, err := New(context.Background(), cfg); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestGenerateTextDispatchesUpstreamModel(t *testing.T) {
	var gotModel string
	r := NewStatic(Route{
		PublicModel:   "public",
		UpstreamModel: "upstream",
		Engine: llm.EngineFunc(func(ctx context.Context, model string, messages []llm.Message, opts llm.GenerateOptions) (string, error) {
			gotModel = model
			return "ok", nil
		}),
	})
	out, err := r.GenerateText(context.Background(), "public", nil, llm.GenerateOptions{})
	if err != nil || out != "ok" || gotModel != "upstream" {
		t.Fatalf("out=%q err=%v model=%q", out, err, gotModel)
	}
	if _, err := r.GenerateText(context.Background(), "missing", nil, llm.GenerateOptions{}); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("err=%v", err)
	}
}
