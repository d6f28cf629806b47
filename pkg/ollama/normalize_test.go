package ollama

import (
	"errors"
	"net/http"
	"testing"
)

func TestExtractErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", "", DefaultErrorDetail},
		{"error field", `{"error":"model not found"}`, "model not found"},
		{"error wins over message", `{"message":"m","error":"e","detail":"d"}`, "e"},
		{"message wins over detail", `{"message":"m","detail":"d"}`, "m"},
		{"detail only", `{"detail":"d"}`, "d"},
		{"empty error falls through", `{"error":"","message":"m"}`, "m"},
		{"null error falls through", `{"error":null,"detail":"d"}`, "d"},
		{"zero falls through", `{"error":0,"detail":"d"}`, "d"},
		{"non-string error", `{"error":{"code":7}}`, `{"code":7}`},
		{"numeric error", `{"error":42}`, "42"},
		{"object without known fields", `{"status":"bad"}`, `{"status":"bad"}`},
		{"json array", `["x"]`, `["x"]`},
		{"plain text", "something broke", "something broke"},
		{"whitespace only", "  ", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractErrorDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("ExtractErrorDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status  int
		body    string
		wantErr bool
	}{
		{http.StatusOK, `{}`, false},
		{http.StatusNoContent, ``, false},
		{http.StatusFound, `moved`, false},
		{http.StatusBadRequest, `{"error":"bad"}`, true},
		{http.StatusNotFound, `{"error":"model 'x' not found"}`, true},
		{http.StatusUnprocessableEntity, ``, true},
		{http.StatusInternalServerError, `oops`, true},
		{http.StatusServiceUnavailable, `{"message":"loading"}`, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := CheckStatus(tt.status, []byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("expected *HTTPError, got %T", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if httpErr.Message != ExtractErrorDetail([]byte(tt.body)) {
				t.Errorf("message = %q", httpErr.Message)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"models":[]}`)); err != nil {
		t.Errorf("unexpected error for valid JSON: %v", err)
	}

	for _, body := range []string{"", "not json", `{"a":`, `{"a":1} trailing`} {
		_, err := DecodeJSON([]byte(body))
		var invalid *InvalidJSONError
		if !errors.As(err, &invalid) {
			t.Errorf("DecodeJSON(%q) error = %v, want *InvalidJSONError", body, err)
		}
	}
}

func TestUnreachableError_Status(t *testing.T) {
	refused := &UnreachableError{Method: http.MethodGet, Path: "/", Cause: errors.New("connection refused")}
	if refused.StatusCode() != http.StatusBadGateway || refused.Message() != UnreachableMessage {
		t.Errorf("refused: got %d %q", refused.StatusCode(), refused.Message())
	}

	timedOut := &UnreachableError{Method: http.MethodGet, Path: "/", Timeout: true, Cause: errors.New("deadline")}
	if timedOut.StatusCode() != http.StatusGatewayTimeout || timedOut.Message() != TimeoutMessage {
		t.Errorf("timeout: got %d %q", timedOut.StatusCode(), timedOut.Message())
	}
}
