package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// errorFields are probed in order when an error body is a JSON object.
var errorFields = []string{"error", "message", "detail"}

// ExtractErrorDetail turns an upstream error body into a single message.
//
// An empty body yields DefaultErrorDetail. A JSON object yields the first
// non-empty of its "error", "message" and "detail" fields; non-string values
// are rendered as compact JSON. Anything else is returned as raw text.
func ExtractErrorDetail(body []byte) string {
	if len(body) == 0 {
		return DefaultErrorDetail
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, field := range errorFields {
			if msg := fieldText(obj[field]); msg != "" {
				return msg
			}
		}
	}

	return rawText(body)
}

// fieldText renders a JSON value as a message. Missing and empty values
// (null, false, 0, "", [] and {}) yield "".
func fieldText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isEmptyValue(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isEmptyValue(raw json.RawMessage) bool {
	switch string(raw) {
	case "null", "false", `""`, "[]", "{}":
		return true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f == 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		switch t := v.(type) {
		case []any:
			return len(t) == 0
		case map[string]any:
			return len(t) == 0
		}
	}
	return false
}

// rawText returns the body as text, replacing invalid UTF-8.
func rawText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}
	return string(bytes.ToValidUTF8(body, []byte("�")))
}

// CheckStatus returns nil for status < 400 and an *HTTPError carrying the
// upstream status and normalized detail otherwise.
func CheckStatus(status int, body []byte) error {
	if status < 400 {
		return nil
	}
	return &HTTPError{
		StatusCode: status,
		Message:    ExtractErrorDetail(body),
	}
}

// DecodeJSON validates that body is a single JSON value and returns it
// unchanged. Failures are reported as *InvalidJSONError.
func DecodeJSON(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		var v any
		err := json.Unmarshal(body, &v)
		if err == nil {
			err = fmt.Errorf("invalid JSON")
		}
		return nil, &InvalidJSONError{Body: truncate(body, 256), Cause: err}
	}
	return json.RawMessage(body), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return rawText(b)
	}
	return rawText(b[:n]) + "..."
}
