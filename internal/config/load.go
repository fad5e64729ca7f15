package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/dashgen-backend/internal/platform/envutil"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got yaml kind %d", node.Kind)
	}
	v := strings.TrimSpace(node.Value)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(v)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultModels() []ModelConfig {
	return []ModelConfig{
		{
			ID: "gpt-4.1-nano",
			Engine: EngineConfig{
				Type:               "oai_http",
				BaseURL:            "https://api.openai.com",
				APIKeyEnv:          "OPENAI_API_KEY",
				JSONResponseFormat: true,
			},
		},
		{
			ID: "sonar",
			Engine: EngineConfig{
				Type:                "oai_http",
				BaseURL:             "https://api.perplexity.ai",
				APIKeyEnv:           "PERPLEXITY_API_KEY",
				ChatCompletionsPath: "/chat/completions",
				Timeout:             Duration{Duration: 45 * time.Second},
			},
		},
		{
			ID:     "gemini-2.5-flash",
			Engine: EngineConfig{Type: "gemini", APIKeyEnv: "GEMINI_API_KEY"},
		},
		{ID: "mock-1", Engine: EngineConfig{Type: "mock"}},
	}
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   10 << 20,
		},
		Models: defaultModels(),
		Dashboard: DashboardConfig{
			Workers:               4,
			APIModel:              "gpt-4.1-nano",
			ResearchModel:         "sonar",
			CSVModel:              "sonar",
			WidgetModel:           "sonar",
			ChatModel:             "sonar",
			CSVPreviewChars:       5000,
			WidgetCSVPreviewChars: 3000,
		},
		Fetch: FetchConfig{
			Timeout:      Duration{Duration: 10 * time.Second},
			UserAgent:    browserUserAgent,
			MaxBodyBytes: 4 << 20,
		},
		Redis: RedisConfig{
			TTL:       Duration{Duration: 5 * time.Minute},
			KeyPrefix: "dashgen:source:",
		},
		Otel: OtelConfig{
			ServiceName: "dashgen-backend",
			SampleRatio: 1,
		},
	}
}

// Default returns the built-in configuration with environment overrides applied.
func Default() (*Config, error) {
	cfg := defaultConfig()
	applyEnv(cfg)
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads DASHGEN_CONFIG_PATH, or config/config.yaml / config/config.json
// under the working directory, then applies environment overrides.
func Load() (*Config, error) {
	cfgPath := strings.TrimSpace(os.Getenv("DASHGEN_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
				p := filepath.Join(wd, "config", name)
				if _, err := os.Stat(p); err == nil {
					cfgPath = p
					break
				}
			}
		}
	}
	return LoadFile(cfgPath)
}

// LoadFile loads path (skipped when empty) over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		// A file that lists models replaces the built-in list instead of merging into it.
		cfg.Models = nil
		if err := decode(path, b, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		if len(cfg.Models) == 0 {
			cfg.Models = defaultModels()
		}
	}
	applyEnv(cfg)
	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTP.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	cfg.HTTP.Addr = envutil.String("DASHGEN_HTTP_ADDR", cfg.HTTP.Addr)
	if origins := envutil.List("CORS_ORIGINS"); len(origins) > 0 {
		cfg.HTTP.CORSOrigins = origins
	}
	cfg.Dashboard.Workers = envutil.Int("DASHGEN_WORKERS", cfg.Dashboard.Workers)
	cfg.Fetch.Timeout.Duration = envutil.Duration("DASHGEN_FETCH_TIMEOUT", cfg.Fetch.Timeout.Duration)
	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
}

func finalize(cfg *Config) error {
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 10 << 20
	}
	if cfg.Dashboard.Workers <= 0 {
		return errors.New("dashboard.workers must be positive")
	}
	if cfg.Dashboard.CSVPreviewChars <= 0 {
		cfg.Dashboard.CSVPreviewChars = 5000
	}
	if cfg.Dashboard.WidgetCSVPreviewChars <= 0 {
		cfg.Dashboard.WidgetCSVPreviewChars = 3000
	}
	if cfg.Fetch.Timeout.Duration <= 0 {
		cfg.Fetch.Timeout = Duration{Duration: 10 * time.Second}
	}
	if strings.TrimSpace(cfg.Fetch.UserAgent) == "" {
		cfg.Fetch.UserAgent = browserUserAgent
	}
	if cfg.Fetch.MaxBodyBytes <= 0 {
		cfg.Fetch.MaxBodyBytes = 4 << 20
	}
	if cfg.Otel.SampleRatio < 0 || cfg.Otel.SampleRatio > 1 {
		return fmt.Errorf("otel.sample_ratio must be within [0,1], got %v", cfg.Otel.SampleRatio)
	}

	if len(cfg.Models) == 0 {
		return errors.New("config must define at least one model")
	}
	seen := map[string]bool{}
	for i := range cfg.Models {
		m := &cfg.Models[i]
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" {
			return errors.New("model id is required")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %q", m.ID)
		}
		seen[m.ID] = true
		if strings.TrimSpace(m.UpstreamModel) == "" {
			m.UpstreamModel = m.ID
		}
		if err := finalizeEngine(m); err != nil {
			return err
		}
	}

	for _, ref := range []struct{ field, id string }{
		{"dashboard.api_model", cfg.Dashboard.APIModel},
		{"dashboard.research_model", cfg.Dashboard.ResearchModel},
		{"dashboard.csv_model", cfg.Dashboard.CSVModel},
		{"dashboard.widget_model", cfg.Dashboard.WidgetModel},
		{"dashboard.chat_model", cfg.Dashboard.ChatModel},
	} {
		if !seen[ref.id] {
			return fmt.Errorf("%s references unknown model %q", ref.field, ref.id)
		}
	}
	return nil
}

func finalizeEngine(m *ModelConfig) error {
	e := &m.Engine
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	e.BaseURL = strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
	e.ChatCompletionsPath = strings.TrimSpace(e.ChatCompletionsPath)
	if e.APIKey == "" && e.APIKeyEnv != "" {
		e.APIKey = strings.TrimSpace(os.Getenv(e.APIKeyEnv))
	}
	if e.Timeout.Duration < 0 {
		return fmt.Errorf("model %q invalid engine.timeout", m.ID)
	}

	switch e.Type {
	case "openai_http", "oai_http":
		e.Type = "oai_http"
		if e.BaseURL == "" {
			return fmt.Errorf("model %q (oai_http) missing engine.base_url", m.ID)
		}
		if e.ChatCompletionsPath == "" {
			e.ChatCompletionsPath = "/v1/chat/completions"
		}
		if e.Timeout.Duration == 0 {
			e.Timeout = Duration{Duration: 60 * time.Second}
		}
	case "gemini":
		if e.Timeout.Duration == 0 {
			e.Timeout = Duration{Duration: 60 * time.Second}
		}
	case "mock":
	case "":
		return fmt.Errorf("model %q missing engine.type", m.ID)
	default:
		return fmt.Errorf("model %q unknown engine.type=%q", m.ID, e.Type)
	}
	return nil
}
