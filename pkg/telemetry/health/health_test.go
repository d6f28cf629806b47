package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/ollamagw/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{"default timeout", 0, 5 * time.Second},
		{"negative timeout", -time.Second, 5 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.timeout).checkTimeout; got != tt.want {
				t.Errorf("checkTimeout = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegisterAndList(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("ollama", func(ctx context.Context) error { return nil })
	checker.RegisterCheck("config", func(ctx context.Context) error { return nil })

	names := checker.ListChecks()
	if len(names) != 2 || names[0] != "config" || names[1] != "ollama" {
		t.Errorf("ListChecks() = %v", names)
	}

	checker.UnregisterCheck("config")
	if names := checker.ListChecks(); len(names) != 1 {
		t.Errorf("after unregister: %v", names)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantFailed []string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusReady,
		},
		{
			name: "all healthy",
			checks: map[string]CheckFunc{
				"ollama": func(ctx context.Context) error { return nil },
				"config": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusReady,
		},
		{
			name: "one unhealthy",
			checks: map[string]CheckFunc{
				"ollama": func(ctx context.Context) error { return errors.New("Could not connect to Ollama") },
				"config": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusNotReady,
			wantFailed: []string{"ollama"},
		},
		{
			name: "check ignoring its context times out",
			checks: map[string]CheckFunc{
				"slow": func(ctx context.Context) error {
					time.Sleep(200 * time.Millisecond)
					return nil
				},
			},
			wantStatus: StatusNotReady,
			wantFailed: []string{"slow"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(50 * time.Millisecond)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())

			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
			for _, name := range tt.wantFailed {
				result := status.Checks[name]
				if result.Status != StatusUnhealthy || result.Message == "" {
					t.Errorf("%s = %+v, want unhealthy with a message", name, result)
				}
			}
		})
	}
}

func TestCheckReadiness_ParentCancelled(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("ollama", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if status := checker.CheckReadiness(ctx); status.Status != StatusNotReady {
		t.Errorf("Status = %q, want not_ready", status.Status)
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Health(ctx context.Context) (json.RawMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"status":"Ollama is running"}`), nil
}

func TestOllamaCheck(t *testing.T) {
	if err := OllamaCheck(fakePinger{})(context.Background()); err != nil {
		t.Errorf("healthy daemon: %v", err)
	}
	if err := OllamaCheck(fakePinger{err: errors.New("down")})(context.Background()); err == nil {
		t.Error("expected error from unreachable daemon")
	}
}

func TestRegister(t *testing.T) {
	cfg := config.DefaultConfig().Telemetry.Health

	checker := New(time.Second)
	checker.RegisterCheck("ollama", OllamaCheck(fakePinger{err: errors.New("Could not connect to Ollama")}))

	mux := http.NewServeMux()
	Register(mux, &cfg, checker, NewVersionInfo("1.2.3", "abc123", "2026-10-19"))

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantField  string
		wantValue  string
	}{
		{http.MethodGet, cfg.LivenessPath, http.StatusOK, "status", StatusOK},
		{http.MethodGet, cfg.ReadinessPath, http.StatusServiceUnavailable, "status", StatusNotReady},
		{http.MethodGet, cfg.VersionPath, http.StatusOK, "version", "1.2.3"},
		{http.MethodHead, cfg.LivenessPath, http.StatusOK, "", ""},
		{http.MethodPost, cfg.LivenessPath, http.StatusMethodNotAllowed, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.method == http.MethodHead && w.Body.Len() != 0 {
				t.Error("HEAD response should have no body")
			}
			if tt.wantField == "" {
				return
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body[tt.wantField] != tt.wantValue {
				t.Errorf("%s = %v, want %s", tt.wantField, body[tt.wantField], tt.wantValue)
			}
		})
	}
}

func TestRegister_Disabled(t *testing.T) {
	cfg := config.DefaultConfig().Telemetry.Health
	cfg.Enabled = false

	mux := http.NewServeMux()
	Register(mux, &cfg, New(time.Second), NewVersionInfo("dev", "", ""))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, cfg.LivenessPath, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when disabled", w.Code)
	}
}
