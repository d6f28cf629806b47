package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestInstall(t *testing.T) {
	Install(nil)
	if Active() != nil {
		t.Fatal("expected no active config after Install(nil)")
	}

	cfg := NewTestConfig().WithListenAddress("192.168.1.1:7070").Build()
	Install(cfg)
	t.Cleanup(func() { Install(nil) })

	if Active() != cfg {
		t.Error("Active() should return the installed config")
	}
}

func TestReload(t *testing.T) {
	t.Setenv(EnvOllamaBaseURL, "")
	t.Cleanup(func() { Install(nil) })

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", `
upstream:
  base_url: "http://first:11434"
`)
	first, err := Reload(path, nil)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if first.Upstream.BaseURL != "http://first:11434" {
		t.Errorf("base URL = %q", first.Upstream.BaseURL)
	}

	writeConfig(t, dir, "config.yaml", `
upstream:
  base_url: "http://second:11434"
security:
  auth:
    enabled: true
    keys: ["k1", "k2"]
`)
	second, err := Reload(path, func(cfg *Config) {
		cfg.Telemetry.Logging.Level = "debug"
	})
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if Active() != second {
		t.Fatal("reloaded config should be active")
	}
	if second.Upstream.BaseURL != "http://second:11434" {
		t.Errorf("base URL = %q", second.Upstream.BaseURL)
	}
	if len(second.Security.Auth.Keys) != 2 {
		t.Errorf("keys = %v", second.Security.Auth.Keys)
	}
	if second.Telemetry.Logging.Level != "debug" {
		t.Errorf("mutate was not applied, level = %q", second.Telemetry.Logging.Level)
	}
}

func TestReload_KeepsActiveOnFailure(t *testing.T) {
	t.Setenv(EnvOllamaBaseURL, "")
	t.Cleanup(func() { Install(nil) })

	dir := t.TempDir()
	path := writeConfig(t, dir, "config.yaml", `
proxy:
  listen_address: "127.0.0.1:8080"
`)
	original, err := Reload(path, nil)
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	tests := []struct {
		name     string
		body     string
		upstream string
	}{
		{
			name: "invalid file",
			body: "telemetry:\n  logging:\n    level: \"invalid\"\n",
		},
		{
			name:     "invalid override",
			body:     "proxy:\n  listen_address: \"127.0.0.1:8080\"\n",
			upstream: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, dir, "config.yaml", tt.body)

			var mutate func(*Config)
			if tt.upstream != "" {
				mutate = func(cfg *Config) { cfg.Upstream.BaseURL = tt.upstream }
			}

			if _, err := Reload(path, mutate); err == nil {
				t.Fatal("expected a reload error")
			}
			if Active() != original {
				t.Error("active config should be kept when reload fails")
			}
		})
	}
}

func TestReload_MissingFile(t *testing.T) {
	t.Cleanup(func() { Install(nil) })
	Install(nil)

	if _, err := Reload(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if Active() != nil {
		t.Error("nothing should be installed after a failed reload")
	}
}
