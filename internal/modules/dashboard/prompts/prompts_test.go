package prompts

import (
	"strings"
	"testing"
)

func TestBuildRendersPromptAndParams(t *testing.T) {
	p, err := Build(PromptDashboardAPI, Input{Prompt: "NBA team stats"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasSuffix(p.User, "User prompt: NBA team stats") {
		t.Fatalf("user prompt not rendered: %q", p.User)
	}
	if p.Temperature != 0.3 || p.MaxTokens != 1000 || !p.JSON {
		t.Fatalf("params: %+v", p)
	}
	if p.System == "" {
		t.Fatal("system prompt empty")
	}
}

func TestBuildResearchFillsCategories(t *testing.T) {
	p, err := Build(PromptDashboardResearch, Input{Prompt: "Lionel Messi"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, `"category": "sports" | "business"`) {
		t.Fatalf("categories not rendered: %q", p.User)
	}
	if strings.Contains(p.User, `"n/a"`) {
		t.Fatalf("api-only category leaked into research prompt")
	}
	if p.MaxTokens != 2000 || p.Temperature != 0.2 {
		t.Fatalf("params: %+v", p)
	}
}

func TestBuildCSVRequiresPreview(t *testing.T) {
	if _, err := Build(PromptDashboardCSV, Input{Prompt: "sales"}); err == nil {
		t.Fatal("expected validation error without CSV")
	}
	p, err := Build(PromptDashboardCSV, Input{Prompt: "sales", CSVPreview: "region,total\nwest,10"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "region,total\nwest,10") {
		t.Fatalf("csv not embedded: %q", p.User)
	}
}

func TestBuildSingleWidgetOptionalSections(t *testing.T) {
	p, err := Build(PromptSingleWidget, Input{Prompt: "revenue"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.Contains(p.User, "Dashboard context:") || strings.Contains(p.User, "CSV data available") {
		t.Fatalf("empty sections rendered: %q", p.User)
	}
	if !strings.Contains(p.User, `"bar" | "line" | "number"`) {
		t.Fatalf("auto type not rendered: %q", p.User)
	}

	p, err = Build(PromptSingleWidget, Input{Prompt: "revenue", WidgetType: "line", DashboardContext: "Acme KPIs"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(p.User, "Dashboard context: Acme KPIs") || !strings.Contains(p.User, `"type": "line"`) {
		t.Fatalf("context/type not rendered: %q", p.User)
	}

	if _, err := Build(PromptSingleWidget, Input{Prompt: "x", WidgetType: "pie"}); err == nil {
		t.Fatal("expected error for unknown widget type")
	}
}

func TestBuildRejectsEmptyPromptAndUnknownName(t *testing.T) {
	if _, err := Build(PromptDashboardAPI, Input{Prompt: "  "}); err == nil {
		t.Fatal("expected error for blank prompt")
	}
	if _, err := Build("nope", Input{Prompt: "x"}); err == nil {
		t.Fatal("expected error for unknown prompt")
	}
}

func TestMakeTemplateValidation(t *testing.T) {
	if _, err := MakeTemplate(Spec{Version: 1}); err == nil {
		t.Fatal("expected missing name error")
	}
	if _, err := MakeTemplate(Spec{Name: "x"}); err == nil {
		t.Fatal("expected version error")
	}
	if _, err := MakeTemplate(Spec{Name: "x", Version: 1, User: "{{.Prompt"}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFingerprintStable(t *testing.T) {
	a, _ := Build(PromptDashboardAPI, Input{Prompt: "x"})
	b, _ := Build(PromptDashboardAPI, Input{Prompt: "x"})
	c, _ := Build(PromptDashboardAPI, Input{Prompt: "y"})
	if a.Fingerprint() != b.Fingerprint() || a.Fingerprint() == c.Fingerprint() {
		t.Fatal("fingerprint should depend only on rendered text")
	}
}
