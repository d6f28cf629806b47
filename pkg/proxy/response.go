package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// NDJSONContentType is the media type of relayed streams.
const NDJSONContentType = "application/x-ndjson"

// WriteJSON writes data as a JSON response with the given status.
// json.RawMessage values are written without re-encoding.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if raw, ok := data.(json.RawMessage); ok {
		if _, err := w.Write(raw); err != nil {
			return fmt.Errorf("failed to write JSON response: %w", err)
		}
		return nil
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}

	return nil
}

// WriteError maps err with HandleError and writes the result. It returns
// the status that was sent.
func WriteError(w http.ResponseWriter, err error) (int, error) {
	status, body := HandleError(err)
	return status, WriteJSON(w, status, body)
}

// SetNDJSONHeaders sets the headers for a relayed NDJSON stream.
func SetNDJSONHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", NDJSONContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
}
