// Package types defines the request and response bodies accepted and
// returned by the gateway's Ollama relay routes.
//
// # Request Types
//
//   - ChatRequest: body of /ollama/chat and /ollama/chat/stream
//   - GenerateRequest: body of /ollama/generate and /ollama/generate/stream
//   - PullRequest: body of /ollama/models/pull
//   - Message: one chat turn inside ChatRequest.Messages
//
// Decoding keeps track of which optional fields the caller actually sent.
// Fields reports only those, so a field that was never set is never
// forwarded upstream. Top-level keys the gateway does not recognise are kept
// in Extra and forwarded unchanged; this lets new Ollama options pass
// through without a gateway release.
//
// # Error Type
//
// ErrorResponse is the single error body shape:
//
//	{"detail": "model 'llama3' not found"}
package types
