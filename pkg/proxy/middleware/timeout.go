package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds a request with a context deadline. It only sets
// the deadline: the handler keeps ownership of the response and reports a
// deadline error itself, so no second writer races it. A timeout <= 0
// disables the middleware.
//
// Apply it to buffered routes only; streamed routes have no total deadline.
//
// Example usage:
//
//	handler = TimeoutMiddleware(60 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
