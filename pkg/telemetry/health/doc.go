// Package health provides the gateway's own probe endpoints.
//
// The probes are separate from the relayed {prefix}/health route, which
// simply forwards the daemon's answer:
//
//   - /healthz: liveness, always 200 while the process serves requests
//   - /readyz: readiness, runs the registered checks concurrently with a
//     per-check timeout and answers 503 if any fails
//   - /version: build information
//
// The "ollama" check calls the daemon root through the relay, so readiness
// follows the daemon's availability. Paths come from telemetry.health.
package health
