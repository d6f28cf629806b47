// Package handlers implements the relay endpoints of the gateway.
//
// Every endpoint lives under the configured path prefix (default /ollama):
//
//	POST   /chat             -> POST   /api/chat      buffered, stream=false
//	POST   /chat/stream      -> POST   /api/chat      NDJSON, stream=true
//	POST   /generate         -> POST   /api/generate  buffered
//	POST   /generate/stream  -> POST   /api/generate  NDJSON
//	GET    /models           -> GET    /api/tags      buffered
//	POST   /pull             -> POST   /api/pull      NDJSON unless stream=false
//	DELETE /models/{model}   -> DELETE /api/models    buffered, body {"model": ...}
//	GET    /health           -> GET    /              buffered, text wrapped as {"status": ...}
//
// Buffered endpoints return the daemon's JSON body with status 200. Streamed
// endpoints return 200 with Content-Type application/x-ndjson and relay the
// daemon's bytes unchanged, flushing after every chunk.
//
// Failures use {"detail": "..."}: the daemon's own status for error
// replies, 500 for an unparseable success body, 502 when the daemon cannot
// be reached, 504 when it times out and 422 for invalid request bodies. A
// streamed endpoint checks the daemon's status before sending anything, so
// an error is never reported inside a 200 stream.
//
// Handlers record request, upstream error and stream metrics when a
// collector is configured.
package handlers
