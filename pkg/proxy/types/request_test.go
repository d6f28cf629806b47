package types

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestMessage_PreservesUnknownKeys(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"role":"assistant","content":"","tool_calls":[{"function":{"name":"f"}}],"thinking":null}`), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if m.Role != "assistant" || m.Content != "" {
		t.Errorf("decoded = %+v", m)
	}
	if _, ok := m.Extra["tool_calls"]; !ok {
		t.Error("tool_calls dropped")
	}
	if _, ok := m.Extra["thinking"]; ok {
		t.Error("null key kept")
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	_ = json.Unmarshal(data, &got)
	want := map[string]any{
		"role":       "assistant",
		"content":    "",
		"tool_calls": []any{map[string]any{"function": map[string]any{"name": "f"}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Marshal() = %v, want %v", got, want)
	}
}

func TestMessage_RequiredKeys(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"content":"hi"}`, "messages.role"},
		{`{"role":"user"}`, "messages.content"},
		{`{"role":"user","content":null}`, "messages.content"},
		{`{"role":1,"content":"hi"}`, "messages.role"},
		{`null`, "messages"},
	}

	for _, tt := range tests {
		var m Message
		err := json.Unmarshal([]byte(tt.body), &m)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("Unmarshal(%s) error = %v, want *ValidationError", tt.body, err)
			continue
		}
		if valErr.Field != tt.field {
			t.Errorf("Unmarshal(%s) field = %q, want %q", tt.body, valErr.Field, tt.field)
		}
	}
}

func TestChatRequest_Extra(t *testing.T) {
	var req ChatRequest
	body := `{"model":"m","messages":[],"stream":true,"tools":[],"think":false,"unused":null}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatal(err)
	}

	if req.Stream == nil || !*req.Stream {
		t.Errorf("stream = %v", req.Stream)
	}
	keys := make([]string, 0, len(req.Extra))
	for k := range req.Extra {
		keys = append(keys, k)
	}
	if len(req.Extra) != 2 || req.Extra["tools"] == nil || req.Extra["think"] == nil {
		t.Errorf("extra keys = %v", keys)
	}

	fields := req.Fields()
	if _, ok := fields["stream"]; ok {
		t.Error("Fields() must not include stream")
	}
	if _, ok := fields["unused"]; ok {
		t.Error("Fields() must not include null passthrough keys")
	}
}

func TestGenerateRequest_Fields(t *testing.T) {
	var req GenerateRequest
	if err := json.Unmarshal([]byte(`{"model":"m","suffix":"x","template":"{{ .Prompt }}"}`), &req); err != nil {
		t.Fatal(err)
	}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}

	fields := req.Fields()
	if len(fields) != 3 {
		t.Errorf("Fields() = %v, want model, suffix and template", fields)
	}
	if fields["template"] != "{{ .Prompt }}" {
		t.Errorf("template = %v", fields["template"])
	}
}

func TestPullRequest(t *testing.T) {
	var req PullRequest
	if err := json.Unmarshal([]byte(`{"model":"llama3","insecure":true,"stream":false}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.WantsStream() {
		t.Error("WantsStream() = true, want false")
	}

	fields := req.Fields()
	if fields["insecure"] != true || fields["model"] != "llama3" {
		t.Errorf("Fields() = %v", fields)
	}
	if _, ok := fields["stream"]; ok {
		t.Error("Fields() must not include stream")
	}

	var empty PullRequest
	if err := empty.Validate(); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestValidate_KeepAlive(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{`"5m"`, false},
		{`300`, false},
		{`-1`, false},
		{`0`, false},
		{`1.5`, true},
		{`true`, true},
		{`{}`, true},
	}

	for _, tt := range tests {
		req := ChatRequest{BaseRequest: BaseRequest{Model: "m", KeepAlive: json.RawMessage(tt.value)}, Messages: []Message{}}
		err := req.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("keep_alive %s: error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}
