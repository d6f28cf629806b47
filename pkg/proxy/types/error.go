package types

// ErrorResponse is the body of every error the gateway returns. The shape
// matches what Ollama clients of the gateway already parse.
type ErrorResponse struct {
	// Detail is a human-readable description of the failure. For relayed
	// upstream errors it carries the daemon's own message.
	Detail string `json:"detail"`
}

// Common error details produced by the gateway itself.
const (
	DetailInvalidJSON   = "Request body is not valid JSON"
	DetailBodyTooLarge  = "Request body too large"
	DetailInternalError = "Internal server error"
	DetailUnauthorized  = "Invalid or missing API key"
)

// NewErrorResponse creates an error body with the given detail.
func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{Detail: detail}
}

// NewServerError creates the generic 500 body.
func NewServerError() *ErrorResponse {
	return NewErrorResponse(DetailInternalError)
}
