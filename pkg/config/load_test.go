package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", `
proxy:
  listen_address: "0.0.0.0:8080"
  read_timeout: "60s"
  path_prefix: "/llm"

upstream:
  base_url: "http://gpu-box:11434"
  connect_timeout: "5s"
  request_timeout: "2m"

telemetry:
  logging:
    level: "debug"
    format: "text"
  metrics:
    enabled: false
`)

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:8080", cfg.Proxy.ListenAddress)
	}
	if cfg.Proxy.ReadTimeout != 60*time.Second {
		t.Errorf("expected read timeout %v, got %v", 60*time.Second, cfg.Proxy.ReadTimeout)
	}
	if cfg.Proxy.PathPrefix != "/llm" {
		t.Errorf("expected path prefix %q, got %q", "/llm", cfg.Proxy.PathPrefix)
	}
	if cfg.Upstream.BaseURL != "http://gpu-box:11434" {
		t.Errorf("expected base URL %q, got %q", "http://gpu-box:11434", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.ConnectTimeout != 5*time.Second {
		t.Errorf("expected connect timeout %v, got %v", 5*time.Second, cfg.Upstream.ConnectTimeout)
	}
	if cfg.Upstream.RequestTimeout != 2*time.Minute {
		t.Errorf("expected request timeout %v, got %v", 2*time.Minute, cfg.Upstream.RequestTimeout)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("expected logging level %q, got %q", "debug", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected explicit metrics.enabled=false to be preserved")
	}
	// Untouched sections still get their defaults.
	if !cfg.Telemetry.Health.Enabled {
		t.Error("expected health to default to enabled")
	}
	if cfg.Upstream.StreamBufferSize != DefaultUpstreamStreamBufferSize {
		t.Errorf("expected stream buffer size %d, got %d", DefaultUpstreamStreamBufferSize, cfg.Upstream.StreamBufferSize)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("failed to load defaults: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"listen address", cfg.Proxy.ListenAddress, DefaultListenAddress},
		{"path prefix", cfg.Proxy.PathPrefix, DefaultPathPrefix},
		{"write timeout", cfg.Proxy.WriteTimeout, time.Duration(0)},
		{"base url", cfg.Upstream.BaseURL, DefaultUpstreamBaseURL},
		{"connect timeout", cfg.Upstream.ConnectTimeout, 30 * time.Second},
		{"request timeout", cfg.Upstream.RequestTimeout, 60 * time.Second},
		{"cors enabled", cfg.Proxy.CORS.Enabled, true},
		{"metrics enabled", cfg.Telemetry.Metrics.Enabled, true},
		{"tracing enabled", cfg.Telemetry.Tracing.Enabled, false},
		{"auth header", cfg.Security.Auth.Header, "Authorization"},
		{"auth scheme", cfg.Security.Auth.Scheme, "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", "proxy: [unclosed")

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", `
upstream:
  base_url: "ftp://ollama:11434"
`)

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError in chain, got %T", err)
	}
	if verr.Errors[0].Field != "upstream.base_url" {
		t.Errorf("expected upstream.base_url error, got %s", verr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "config.yaml", `
proxy:
  listen_address: "127.0.0.1:8080"
upstream:
  base_url: "http://from-file:11434"
`)

	t.Setenv("OLLAMAGW_PROXY_LISTEN_ADDRESS", "0.0.0.0:9999")
	t.Setenv("OLLAMAGW_UPSTREAM_CONNECT_TIMEOUT", "3s")
	t.Setenv("OLLAMAGW_TELEMETRY_METRICS_ENABLED", "false")
	t.Setenv("OLLAMAGW_PROXY_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv(EnvOllamaBaseURL, "http://from-env:11434")

	cfg, err := LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Proxy.ListenAddress != "0.0.0.0:9999" {
		t.Errorf("expected env listen address, got %q", cfg.Proxy.ListenAddress)
	}
	if cfg.Upstream.ConnectTimeout != 3*time.Second {
		t.Errorf("expected env connect timeout, got %v", cfg.Upstream.ConnectTimeout)
	}
	if cfg.Telemetry.Metrics.Enabled {
		t.Error("expected metrics disabled by env")
	}
	if cfg.Upstream.BaseURL != "http://from-env:11434" {
		t.Errorf("expected OLLAMA_BASE_URL to win over file, got %q", cfg.Upstream.BaseURL)
	}
	if len(cfg.Proxy.CORS.AllowedOrigins) != 2 || cfg.Proxy.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.Proxy.CORS.AllowedOrigins)
	}
}

func TestLoadConfigWithEnvOverrides_GatewayVariableWins(t *testing.T) {
	t.Setenv(EnvOllamaBaseURL, "http://generic:11434")
	t.Setenv("OLLAMAGW_UPSTREAM_BASE_URL", "http://specific:11434")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Upstream.BaseURL != "http://specific:11434" {
		t.Errorf("expected OLLAMAGW_UPSTREAM_BASE_URL to win, got %q", cfg.Upstream.BaseURL)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("OLLAMAGW_UPSTREAM_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("OLLAMAGW_TELEMETRY_TRACING_ENABLED", "maybe")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Upstream.RequestTimeout != DefaultUpstreamRequestTimeout {
		t.Errorf("expected default request timeout, got %v", cfg.Upstream.RequestTimeout)
	}
	if cfg.Telemetry.Tracing.Enabled {
		t.Error("expected tracing to stay disabled")
	}
}

func TestLoadConfigWithEnvOverrides_RevalidatesAfterOverride(t *testing.T) {
	t.Setenv("OLLAMAGW_TELEMETRY_LOGGING_LEVEL", "chatty")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected validation error after env override")
	}
	if !strings.Contains(err.Error(), "after environment overrides") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	before := *cfg
	ApplyDefaults(cfg)

	if cfg.Proxy.ListenAddress != before.Proxy.ListenAddress ||
		cfg.Upstream.BaseURL != before.Upstream.BaseURL ||
		len(cfg.Telemetry.Metrics.RequestDurationBuckets) != len(before.Telemetry.Metrics.RequestDurationBuckets) {
		t.Error("ApplyDefaults should be idempotent")
	}
}

func TestApplyDefaults_CustomAuthHeaderHasNoScheme(t *testing.T) {
	cfg := &Config{}
	cfg.Security.Auth.Header = "X-API-Key"
	ApplyDefaults(cfg)

	if cfg.Security.Auth.Scheme != "" {
		t.Errorf("expected empty scheme for custom header, got %q", cfg.Security.Auth.Scheme)
	}
}
