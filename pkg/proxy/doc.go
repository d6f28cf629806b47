// Package proxy relays gateway requests to an Ollama daemon.
//
// It sits between the HTTP handlers and the upstream client in pkg/ollama:
//
//   - translate.go builds upstream bodies from decoded requests
//   - relay.go performs buffered calls and pipes NDJSON streams
//   - request.go decodes and validates inbound bodies
//   - errors.go maps failures to HTTP statuses and {"detail"} bodies
//   - response.go writes JSON and stream headers
//
// # Request Flow
//
//	client → handler → ParseRequest → BuildPayload → Relay.Buffered → WriteJSON
//	client → handler → ParseRequest → BuildPayload → Relay.Open → Relay.Pipe
//
// # Buffered Relay
//
// Buffered waits for the complete upstream body under the configured request
// timeout and returns it unchanged:
//
//	body, err := relay.Buffered(ctx, http.MethodPost, ollama.PathChat,
//	    proxy.BuildPayload(&req, false))
//	if err != nil {
//	    proxy.WriteError(w, err)
//	    return
//	}
//	proxy.WriteJSON(w, http.StatusOK, body)
//
// # Streamed Relay
//
// Open returns as soon as the daemon sends its status line. An error status
// is turned into an error before any byte reaches the caller, so the caller
// still gets the real status code. After that Pipe copies chunks through as
// they arrive and flushes each one:
//
//	stream, err := relay.Open(ctx, http.MethodPost, ollama.PathChat,
//	    proxy.BuildPayload(&req, true))
//	if err != nil {
//	    proxy.WriteError(w, err)
//	    return
//	}
//	stats, err := relay.Pipe(ctx, w, stream)
//
// A stream has no total deadline. It ends when the daemon finishes, when the
// caller disconnects, or when a write to the caller fails. In the last two
// cases the upstream request is cancelled and its connection released.
//
// # Error Mapping
//
//	validation failure        422
//	upstream status >= 400    same status, upstream detail
//	undecodable success body  500 "Invalid JSON response from Ollama"
//	connect or DNS failure    502 "Could not connect to Ollama"
//	upstream timeout          504 "Timed out waiting for Ollama"
package proxy
