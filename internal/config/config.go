package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`

	// CORSOrigins lists allowed browser origins. Empty means any origin.
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type EngineConfig struct {
	// Type is one of "oai_http", "gemini" or "mock".
	Type string `json:"type" yaml:"type"`

	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKey wins over APIKeyEnv. Keys are resolved once at load time.
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`

	ChatCompletionsPath string   `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`
	Timeout             Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// JSONResponseFormat sends response_format=json_object when a caller asks for JSON.
	// Perplexity rejects it, OpenAI accepts it.
	JSONResponseFormat bool `json:"json_response_format,omitempty" yaml:"json_response_format,omitempty"`
}

type ModelConfig struct {
	ID string `json:"id" yaml:"id"`

	// UpstreamModel overrides the model name sent to the engine. Defaults to ID.
	UpstreamModel string `json:"upstream_model,omitempty" yaml:"upstream_model,omitempty"`

	Engine EngineConfig `json:"engine" yaml:"engine"`
}

type DashboardConfig struct {
	Workers int `json:"workers" yaml:"workers"`

	APIModel      string `json:"api_model" yaml:"api_model"`
	ResearchModel string `json:"research_model" yaml:"research_model"`
	CSVModel      string `json:"csv_model" yaml:"csv_model"`
	WidgetModel   string `json:"widget_model" yaml:"widget_model"`
	ChatModel     string `json:"chat_model" yaml:"chat_model"`

	CSVPreviewChars       int `json:"csv_preview_chars" yaml:"csv_preview_chars"`
	WidgetCSVPreviewChars int `json:"widget_csv_preview_chars" yaml:"widget_csv_preview_chars"`
}

type FetchConfig struct {
	Timeout      Duration `json:"timeout" yaml:"timeout"`
	UserAgent    string   `json:"user_agent" yaml:"user_agent"`
	MaxBodyBytes int64    `json:"max_body_bytes" yaml:"max_body_bytes"`
}

type RedisConfig struct {
	// Addr enables the source cache when non-empty.
	Addr      string   `json:"addr,omitempty" yaml:"addr,omitempty"`
	Password  string   `json:"password,omitempty" yaml:"password,omitempty"`
	DB        int      `json:"db,omitempty" yaml:"db,omitempty"`
	TTL       Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	KeyPrefix string   `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

type OtelConfig struct {
	Enabled     bool    `json:"enabled" yaml:"enabled"`
	ServiceName string  `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	Endpoint    string  `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Insecure    bool    `json:"insecure,omitempty" yaml:"insecure,omitempty"`
	SampleRatio float64 `json:"sample_ratio,omitempty" yaml:"sample_ratio,omitempty"`
}

type MetricsConfig struct {
	// Enabled serves Prometheus text exposition at /metrics.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

type Config struct {
	Env       string          `json:"env" yaml:"env"`
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	Models    []ModelConfig   `json:"models" yaml:"models"`
	Dashboard DashboardConfig `json:"dashboard" yaml:"dashboard"`
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Redis     RedisConfig     `json:"redis" yaml:"redis"`
	Otel      OtelConfig      `json:"otel" yaml:"otel"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics"`
}

// Model returns the model entry with the given id.
func (c *Config) Model(id string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelConfig{}, false
}
