package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UpstreamRequest is an inbound request that can be forwarded to Ollama.
type UpstreamRequest interface {
	// Fields returns every field the caller set, keyed by its JSON name.
	// Unset and null fields are absent. "stream" is never included.
	Fields() map[string]any

	// Validate checks required fields.
	Validate() error
}

// Message is one chat turn. Role and content are required; any other keys
// (images, tool_calls, ...) are kept verbatim.
type Message struct {
	Role    string
	Content string
	Extra   map[string]json.RawMessage
}

// UnmarshalJSON decodes a message and requires role and content.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return &ValidationError{Field: "messages", Message: "message must be an object"}
	}

	for _, key := range []string{"role", "content"} {
		value, ok := raw[key]
		if !ok || isNull(value) {
			return &ValidationError{Field: "messages." + key, Message: key + " is required"}
		}
	}

	var msg Message
	if err := json.Unmarshal(raw["role"], &msg.Role); err != nil {
		return &ValidationError{Field: "messages.role", Message: "role must be a string"}
	}
	if err := json.Unmarshal(raw["content"], &msg.Content); err != nil {
		return &ValidationError{Field: "messages.content", Message: "content must be a string"}
	}

	delete(raw, "role")
	delete(raw, "content")
	msg.Extra = dropNulls(raw)

	*m = msg
	return nil
}

// MarshalJSON encodes the message with its extra keys.
func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["role"] = m.Role
	out["content"] = m.Content
	return json.Marshal(out)
}

// BaseRequest holds the fields shared by chat and generate requests.
type BaseRequest struct {
	Model     string                     `json:"model"`
	Options   map[string]json.RawMessage `json:"options,omitempty"`
	KeepAlive json.RawMessage            `json:"keep_alive,omitempty"`

	// Stream is the caller's stream flag. Chat and generate routes replace
	// it; only pull consults it.
	Stream *bool `json:"stream,omitempty"`

	// Extra holds unrecognised top-level keys, forwarded unchanged.
	Extra map[string]json.RawMessage `json:"-"`
}

func (b *BaseRequest) validateBase() error {
	if b.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	if len(b.KeepAlive) > 0 && !isNull(b.KeepAlive) {
		switch firstByte(b.KeepAlive) {
		case '"':
		case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			var n json.Number
			if err := json.Unmarshal(b.KeepAlive, &n); err != nil {
				return &ValidationError{Field: "keep_alive", Message: "keep_alive must be a string or an integer"}
			}
			if _, err := n.Int64(); err != nil {
				return &ValidationError{Field: "keep_alive", Message: "keep_alive must be a string or an integer"}
			}
		default:
			return &ValidationError{Field: "keep_alive", Message: "keep_alive must be a string or an integer"}
		}
	}
	return nil
}

func (b *BaseRequest) baseFields() map[string]any {
	out := make(map[string]any, len(b.Extra)+4)
	for k, v := range b.Extra {
		out[k] = v
	}
	out["model"] = b.Model
	if b.Options != nil {
		out["options"] = b.Options
	}
	if len(b.KeepAlive) > 0 && !isNull(b.KeepAlive) {
		out["keep_alive"] = b.KeepAlive
	}
	return out
}

// ChatRequest is the body of the chat routes.
type ChatRequest struct {
	BaseRequest
	Messages []Message       `json:"messages"`
	Format   json.RawMessage `json:"format,omitempty"`
}

var chatKeys = []string{"model", "options", "keep_alive", "stream", "messages", "format"}

// UnmarshalJSON decodes the known fields and captures the rest in Extra.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	type plain ChatRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, chatKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = ChatRequest(p)
	return nil
}

// Validate checks required fields.
func (r *ChatRequest) Validate() error {
	if err := r.validateBase(); err != nil {
		return err
	}
	if r.Messages == nil {
		return &ValidationError{Field: "messages", Message: "messages is required"}
	}
	if len(r.Format) > 0 && !isNull(r.Format) {
		if c := firstByte(r.Format); c != '"' && c != '{' {
			return &ValidationError{Field: "format", Message: "format must be a string or a JSON schema object"}
		}
	}
	return nil
}

// Fields implements UpstreamRequest.
func (r *ChatRequest) Fields() map[string]any {
	out := r.baseFields()
	out["messages"] = r.Messages
	if len(r.Format) > 0 && !isNull(r.Format) {
		out["format"] = r.Format
	}
	return out
}

// GenerateRequest is the body of the generate routes.
type GenerateRequest struct {
	BaseRequest
	Prompt   *string `json:"prompt,omitempty"`
	Input    *string `json:"input,omitempty"`
	System   *string `json:"system,omitempty"`
	Template *string `json:"template,omitempty"`
	Context  []int   `json:"context,omitempty"`
}

var generateKeys = []string{"model", "options", "keep_alive", "stream", "prompt", "input", "system", "template", "context"}

// UnmarshalJSON decodes the known fields and captures the rest in Extra.
func (r *GenerateRequest) UnmarshalJSON(data []byte) error {
	type plain GenerateRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, generateKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = GenerateRequest(p)
	return nil
}

// Validate checks required fields.
func (r *GenerateRequest) Validate() error {
	return r.validateBase()
}

// Fields implements UpstreamRequest.
func (r *GenerateRequest) Fields() map[string]any {
	out := r.baseFields()
	setString(out, "prompt", r.Prompt)
	setString(out, "input", r.Input)
	setString(out, "system", r.System)
	setString(out, "template", r.Template)
	if r.Context != nil {
		out["context"] = r.Context
	}
	return out
}

// PullRequest is the body of the pull route.
type PullRequest struct {
	Model    string `json:"model"`
	Insecure *bool  `json:"insecure,omitempty"`

	// Stream selects the relay mode. Unset means true.
	Stream *bool `json:"stream,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

var pullKeys = []string{"model", "insecure", "stream"}

// UnmarshalJSON decodes the known fields and captures the rest in Extra.
func (r *PullRequest) UnmarshalJSON(data []byte) error {
	type plain PullRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := extraFields(data, pullKeys)
	if err != nil {
		return err
	}
	p.Extra = extra
	*r = PullRequest(p)
	return nil
}

// Validate checks required fields.
func (r *PullRequest) Validate() error {
	if r.Model == "" {
		return &ValidationError{Field: "model", Message: "model is required"}
	}
	return nil
}

// Fields implements UpstreamRequest.
func (r *PullRequest) Fields() map[string]any {
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["model"] = r.Model
	if r.Insecure != nil {
		out["insecure"] = *r.Insecure
	}
	return out
}

// WantsStream reports the caller's stream choice, defaulting to true.
func (r *PullRequest) WantsStream() bool {
	return r.Stream == nil || *r.Stream
}

// ValidationError describes an invalid inbound field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// extraFields returns the top-level keys of data not listed in known,
// with null values removed.
func extraFields(data []byte, known []string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	return dropNulls(all), nil
}

func dropNulls(m map[string]json.RawMessage) map[string]json.RawMessage {
	for k, v := range m {
		if isNull(v) {
			delete(m, k)
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func setString(out map[string]any, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}
