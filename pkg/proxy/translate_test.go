package proxy

import (
	"encoding/json"
	"reflect"
	"testing"

	"mercator-hq/ollamagw/pkg/proxy/types"
)

func decode[T any](t *testing.T, body string) *T {
	t.Helper()
	v := new(T)
	if err := json.Unmarshal([]byte(body), v); err != nil {
		t.Fatalf("failed to decode %s: %v", body, err)
	}
	return v
}

// roundTrip encodes a payload the way the upstream client does and decodes
// it generically so tests compare wire-level JSON.
func roundTrip(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to encode payload: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	return out
}

func TestBuildPayload_Chat(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		stream bool
		want   map[string]any
	}{
		{
			name:   "minimal buffered",
			body:   `{"model":"llama3","messages":[{"role":"user","content":"hi"}]}`,
			stream: false,
			want: map[string]any{
				"model":    "llama3",
				"messages": []any{map[string]any{"role": "user", "content": "hi"}},
				"stream":   false,
			},
		},
		{
			name:   "inbound stream flag is overwritten",
			body:   `{"model":"llama3","messages":[],"stream":false}`,
			stream: true,
			want: map[string]any{
				"model":    "llama3",
				"messages": []any{},
				"stream":   true,
			},
		},
		{
			name:   "null fields are omitted",
			body:   `{"model":"llama3","messages":[],"format":null,"options":null,"keep_alive":null,"extra":null}`,
			stream: false,
			want: map[string]any{
				"model":    "llama3",
				"messages": []any{},
				"stream":   false,
			},
		},
		{
			name:   "optional fields and passthrough keys are kept",
			body:   `{"model":"llama3","messages":[{"role":"user","content":"hi","images":["aGk="]}],"format":"json","options":{"temperature":0.2},"keep_alive":"5m","tools":[{"type":"function"}]}`,
			stream: true,
			want: map[string]any{
				"model": "llama3",
				"messages": []any{map[string]any{
					"role": "user", "content": "hi", "images": []any{"aGk="},
				}},
				"format":     "json",
				"options":    map[string]any{"temperature": 0.2},
				"keep_alive": "5m",
				"tools":      []any{map[string]any{"type": "function"}},
				"stream":     true,
			},
		},
		{
			name:   "schema format and numeric keep_alive",
			body:   `{"model":"llama3","messages":[],"format":{"type":"object"},"keep_alive":0}`,
			stream: false,
			want: map[string]any{
				"model":      "llama3",
				"messages":   []any{},
				"format":     map[string]any{"type": "object"},
				"keep_alive": float64(0),
				"stream":     false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decode[types.ChatRequest](t, tt.body)
			got := roundTrip(t, BuildPayload(req, tt.stream))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildPayload() =\n%v\nwant\n%v", got, tt.want)
			}
		})
	}
}

func TestBuildPayload_Generate(t *testing.T) {
	req := decode[types.GenerateRequest](t, `{"model":"llama3","prompt":"why is the sky blue","system":null,"context":[1,2,3],"raw":true}`)
	got := roundTrip(t, BuildPayload(req, false))

	want := map[string]any{
		"model":   "llama3",
		"prompt":  "why is the sky blue",
		"context": []any{float64(1), float64(2), float64(3)},
		"raw":     true,
		"stream":  false,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("BuildPayload() = %v, want %v", got, want)
	}

	for _, absent := range []string{"system", "template", "input", "options", "keep_alive"} {
		if _, ok := got[absent]; ok {
			t.Errorf("unset field %q present in payload", absent)
		}
	}
}

func TestBuildPayload_EmptyPromptIsKept(t *testing.T) {
	req := decode[types.GenerateRequest](t, `{"model":"llama3","prompt":""}`)
	got := roundTrip(t, BuildPayload(req, true))

	if v, ok := got["prompt"]; !ok || v != "" {
		t.Errorf("prompt = %v (present %v), want empty string", v, ok)
	}
}

func TestPullPayload(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStream bool
	}{
		{"unset stream defaults to streaming", `{"model":"llama3"}`, true},
		{"explicit true", `{"model":"llama3","stream":true}`, true},
		{"explicit false", `{"model":"llama3","stream":false}`, false},
		{"null stream defaults to streaming", `{"model":"llama3","stream":null}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := decode[types.PullRequest](t, tt.body)
			payload, stream := PullPayload(req)
			if stream != tt.wantStream {
				t.Errorf("stream = %v, want %v", stream, tt.wantStream)
			}
			if payload["stream"] != tt.wantStream {
				t.Errorf("payload stream = %v, want %v", payload["stream"], tt.wantStream)
			}
			if payload["model"] != "llama3" {
				t.Errorf("payload model = %v", payload["model"])
			}
			if _, ok := payload["insecure"]; ok {
				t.Error("unset insecure present in payload")
			}
		})
	}
}

func TestPullPayload_ForwardsUnknownKeys(t *testing.T) {
	req := decode[types.PullRequest](t, `{"model":"llama3","insecure":true,"channel":"beta","mirror":null}`)
	payload, _ := PullPayload(req)

	want := map[string]any{
		"model":    "llama3",
		"insecure": true,
		"channel":  json.RawMessage(`"beta"`),
		"stream":   true,
	}
	if !reflect.DeepEqual(payload, want) {
		t.Errorf("PullPayload() = %v, want %v", payload, want)
	}
}

func TestRemovePayload(t *testing.T) {
	got := RemovePayload("llama3:8b")
	if !reflect.DeepEqual(got, map[string]any{"model": "llama3:8b"}) {
		t.Errorf("RemovePayload() = %v", got)
	}
}
