package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutMiddleware(t *testing.T) {
	t.Run("sets deadline", func(t *testing.T) {
		var deadline time.Time
		var ok bool
		wrapped := TimeoutMiddleware(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, ok = r.Context().Deadline()
		}))

		start := time.Now()
		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ollama/chat", nil))

		if !ok {
			t.Fatal("expected a context deadline")
		}
		if d := deadline.Sub(start); d <= 0 || d > time.Minute+time.Second {
			t.Errorf("deadline %v from start, want about 1m", d)
		}
	})

	t.Run("handler sees expiry", func(t *testing.T) {
		wrapped := TimeoutMiddleware(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
				w.WriteHeader(http.StatusGatewayTimeout)
			case <-time.After(time.Second):
				w.WriteHeader(http.StatusOK)
			}
		}))

		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ollama/models", nil))

		if w.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want 504 written by the handler", w.Code)
		}
	})

	t.Run("zero disables", func(t *testing.T) {
		var ok bool
		wrapped := TimeoutMiddleware(0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok = r.Context().Deadline()
		}))

		wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/ollama/chat/stream", nil))

		if ok {
			t.Error("expected no deadline when the timeout is zero")
		}
	})
}
