package ollama

import (
	"fmt"
	"net/http"
)

// Fixed messages surfaced to gateway callers.
const (
	// DefaultErrorDetail is used when an upstream error carries no body.
	DefaultErrorDetail = "Upstream Ollama request failed"

	// InvalidJSONMessage is returned when a successful upstream response
	// cannot be decoded as JSON.
	InvalidJSONMessage = "Invalid JSON response from Ollama"

	// UnreachableMessage is returned when the daemon cannot be contacted.
	UnreachableMessage = "Could not connect to Ollama"

	// TimeoutMessage is returned when the daemon did not answer in time.
	TimeoutMessage = "Timed out waiting for Ollama"
)

// HTTPError is an upstream response with status >= 400.
// StatusCode is the upstream status, reused verbatim for the gateway response.
type HTTPError struct {
	// StatusCode is the HTTP status returned by Ollama.
	StatusCode int

	// Message is the normalized error detail.
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("ollama error (status %d): %s", e.StatusCode, e.Message)
}

// UnreachableError is a transport-level failure: DNS, connection refused,
// connect timeout or a request exceeding its deadline. It never carries an
// upstream status.
type UnreachableError struct {
	// Method and Path identify the upstream call.
	Method string
	Path   string

	// Timeout is true when the failure was a deadline rather than a refusal.
	Timeout bool

	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *UnreachableError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("ollama %s %s timed out: %v", e.Method, e.Path, e.Cause)
	}
	return fmt.Sprintf("ollama %s %s unreachable: %v", e.Method, e.Path, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *UnreachableError) Unwrap() error {
	return e.Cause
}

// StatusCode is the gateway status for this failure: 504 for timeouts,
// 502 otherwise.
func (e *UnreachableError) StatusCode() int {
	if e.Timeout {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}

// Message is the caller-facing detail.
func (e *UnreachableError) Message() string {
	if e.Timeout {
		return TimeoutMessage
	}
	return UnreachableMessage
}

// InvalidJSONError is a 2xx/3xx upstream response whose body is not JSON.
type InvalidJSONError struct {
	// Body is a prefix of the offending response, kept for logging.
	Body string

	// Cause is the decode error.
	Cause error
}

// Error implements the error interface.
func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%s: %v", InvalidJSONMessage, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *InvalidJSONError) Unwrap() error {
	return e.Cause
}
