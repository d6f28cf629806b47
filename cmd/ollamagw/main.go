// Ollamagw is an HTTP gateway in front of a local Ollama daemon.
//
// It exposes chat, generate and model management routes under a path
// prefix, validates request bodies, forwards them to Ollama and relays the
// answers back, either buffered or as a live NDJSON stream. Upstream errors
// are normalised into {"detail": "..."} bodies with the upstream status.
//
// Usage:
//
//	# Start the gateway with defaults (Ollama at http://localhost:11434)
//	ollamagw run
//
//	# Start with a configuration file
//	ollamagw run --config /etc/ollamagw/config.yaml
//
//	# Check that the daemon answers
//	ollamagw ping
//
//	# List the models the daemon has pulled
//	ollamagw models
//
//	# Show version information
//	ollamagw version
package main

func main() {
	Execute()
}
