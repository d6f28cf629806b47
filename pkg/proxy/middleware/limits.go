package middleware

import (
	"encoding/json"
	"net/http"

	"mercator-hq/ollamagw/pkg/proxy/types"
)

// BodyLimitMiddleware caps the size of request bodies. Reads beyond
// maxBytes fail with *http.MaxBytesError, which request parsing reports as
// 413. Requests that declare a larger Content-Length are rejected before
// the handler runs. A limit <= 0 disables the middleware.
//
// Example:
//
//	handler := BodyLimitMiddleware(cfg.Proxy.MaxBodyBytes)(next)
func BodyLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeError(w, http.StatusRequestEntityTooLarge, types.DetailBodyTooLarge)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.NewErrorResponse(detail))
}
