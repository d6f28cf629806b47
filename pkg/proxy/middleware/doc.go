// Package middleware provides the HTTP middleware wrapped around the relay
// routes.
//
// The server assembles the chain as
//
//	Recovery(Logging(RequestID(Tracing(CORS(BodyLimit(mux))))))
//
// and additionally wraps individual routes with the auth guard and, for
// buffered routes only, TimeoutMiddleware. Streamed routes carry no total
// deadline; they end when the upstream stream ends or the caller leaves.
//
// Every wrapper that replaces the http.ResponseWriter keeps http.Flusher
// working and exposes Unwrap, so http.ResponseController can flush NDJSON
// chunks through the whole chain.
//
// Error bodies written here use the relay's {"detail": "..."} shape.
package middleware
