package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(url string) *AnthropicClient {
	cfg := DefaultAnthropicConfig("test-key")
	cfg.BaseURL = url
	return NewAnthropicClientWithConfig(cfg)
}

func TestConverseNotConfigured(t *testing.T) {
	c := NewAnthropicClient("")
	_, err := c.Converse(context.Background(), &Request{Messages: []Message{TextMessage(RoleUser, "hi")}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestConverseParsesTextAndToolCalls(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]interface{}{
			"id": "msg_1",
			"content": []map[string]interface{}{
				{"type": "text", "text": "Checking the battery state."},
				{"type": "tool_use", "id": "tu_1", "name": "get-state", "input": map[string]interface{}{"id": "modbus.2.holdingRegisters.temp"}},
			},
			"stop_reason": "tool_use",
			"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	reply, err := c.Converse(context.Background(), &Request{
		System:   "you are a dashboard assistant",
		Tools:    []ToolDefinition{{Name: "get-state", InputSchema: map[string]interface{}{"type": "object"}}},
		Messages: []Message{TextMessage(RoleUser, "what is the temperature?")},
	})
	if err != nil {
		t.Fatalf("Converse: %v", err)
	}

	if gotReq.System != "you are a dashboard assistant" {
		t.Fatalf("system prompt not forwarded: %q", gotReq.System)
	}
	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Name != "get-state" {
		t.Fatalf("tools not forwarded: %+v", gotReq.Tools)
	}

	if got := reply.Text(); got != "Checking the battery state." {
		t.Fatalf("Text() = %q", got)
	}
	if len(reply.ToolCalls) != 1 {
		t.Fatalf("tool calls = %d, want 1", len(reply.ToolCalls))
	}
	tc := reply.ToolCalls[0]
	if tc.ID != "tu_1" || tc.Name != "get-state" {
		t.Fatalf("tool call = %+v", tc)
	}
	if reply.Assistant.Role != RoleAssistant || len(reply.Assistant.Content) != 2 {
		t.Fatalf("assistant message = %+v", reply.Assistant)
	}
	if reply.StopReason != "tool_use" {
		t.Fatalf("stop reason = %q", reply.StopReason)
	}
}

func TestConverseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad schema"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Converse(context.Background(), &Request{Messages: []Message{TextMessage(RoleUser, "hi")}})
	var be *BackendError
	if !errors.As(err, &be) {
		t.Fatalf("err = %v, want *BackendError", err)
	}
}

func TestToolResultMessage(t *testing.T) {
	m := ToolResultMessage("tu_9", `{"val":42}`, true)
	if m.Role != RoleUser {
		t.Fatalf("role = %q", m.Role)
	}
	b := m.Content[0]
	if b.Type != BlockToolResult || b.ToolUseID != "tu_9" || !b.IsError {
		t.Fatalf("block = %+v", b)
	}
}
