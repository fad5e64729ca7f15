package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/dashgen-backend/internal/config"
	"github.com/yungbote/dashgen-backend/internal/llm"
)

func newTestEngine(t *testing.T, h http.HandlerFunc) *Engine {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	e, err := New(context.Background(), config.EngineConfig{
		Type:    "gemini",
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Timeout: config.Duration{Duration: 2 * time.Second},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestGenerateText(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent") {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("api key header missing")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if _, ok := body["systemInstruction"]; !ok {
			t.Errorf("system instruction missing: %v", body)
		}
		gc, _ := body["generationConfig"].(map[string]any)
		if gc["responseMimeType"] != "application/json" {
			t.Errorf("generationConfig=%v", gc)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"widgets\":[]}"}]}}]}`))
	})

	out, err := e.GenerateText(context.Background(), "gemini-2.5-flash", []llm.Message{
		{Role: "system", Content: "be terse"},
		{Role: "user", Content: "hello"},
	}, llm.GenerateOptions{Temperature: 0.2, MaxTokens: 100, JSON: true})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != `{"widgets":[]}` {
		t.Fatalf("out=%q", out)
	}
}

func TestGenerateTextRateLimited(t *testing.T) {
	e := newTestEngine(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})
	_, err := e.GenerateText(context.Background(), "gemini-2.5-flash", []llm.Message{{Role: "user", Content: "hi"}}, llm.GenerateOptions{})
	if llm.KindOf(err) != llm.KindRateLimit {
		t.Fatalf("kind=%q err=%v", llm.KindOf(err), err)
	}
}

func TestGenerateTextWithoutKey(t *testing.T) {
	e, err := New(context.Background(), config.EngineConfig{Type: "gemini"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = e.GenerateText(context.Background(), "gemini-2.5-flash", []llm.Message{{Role: "user", Content: "hi"}}, llm.GenerateOptions{})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("err=%v", err)
	}
}
