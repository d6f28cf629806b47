package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercator-hq/ollamagw/pkg/proxy/types"
)

func TestBodyLimitMiddleware(t *testing.T) {
	var readErr error
	var readBytes int
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		readErr, readBytes = err, len(data)
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name          string
		limit         int64
		body          string
		unknownLength bool
		wantStatus    int
		wantReadErr   bool
	}{
		{"under limit", 16, `{"model":"x"}`, false, http.StatusOK, false},
		{"exact limit", 4, "abcd", false, http.StatusOK, false},
		{"declared length over limit", 4, "abcdef", false, http.StatusRequestEntityTooLarge, false},
		{"chunked body over limit", 4, "abcdef", true, http.StatusOK, true},
		{"disabled", 0, strings.Repeat("x", 1024), false, http.StatusOK, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			readErr, readBytes = nil, 0
			wrapped := BodyLimitMiddleware(tt.limit)(handler)

			req := httptest.NewRequest(http.MethodPost, "/ollama/chat", strings.NewReader(tt.body))
			if tt.unknownLength {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusRequestEntityTooLarge {
				var body types.ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
					t.Fatalf("body is not JSON: %v", err)
				}
				if body.Detail != types.DetailBodyTooLarge {
					t.Errorf("detail = %q", body.Detail)
				}
				return
			}

			var maxErr *http.MaxBytesError
			if got := errors.As(readErr, &maxErr); got != tt.wantReadErr {
				t.Errorf("MaxBytesError = %v, want %v (err %v)", got, tt.wantReadErr, readErr)
			}
			if !tt.wantReadErr && readBytes != len(tt.body) {
				t.Errorf("read %d bytes, want %d", readBytes, len(tt.body))
			}
		})
	}
}
