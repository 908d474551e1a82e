// Package llm provides the conversation backend client for dashterm.
// The wire protocol follows the Anthropic messages shape: every message is a
// list of typed content blocks, which is what lets tool invocations and tool
// results travel inside ordinary conversation turns.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one typed block inside a message.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"` // text blocks

	// tool_use blocks
	ID    string                 `json:"id,omitempty"`
	Name  string                 `json:"name,omitempty"`
	Input map[string]interface{} `json:"input,omitempty"`

	// tool_result blocks
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Message is one conversation turn.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// TextMessage builds a plain text turn.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Type: BlockText, Text: text}}}
}

// ToolResultMessage builds a user turn carrying one tool result keyed to the
// originating tool_use id.
func ToolResultMessage(toolUseID, content string, isError bool) Message {
	return Message{Role: RoleUser, Content: []ContentBlock{{
		Type:      BlockToolResult,
		ToolUseID: toolUseID,
		Content:   content,
		IsError:   isError,
	}}}
}

// Text concatenates the text blocks of a message.
func (m Message) Text() string {
	var b strings.Builder
	for _, c := range m.Content {
		if c.Type == BlockText {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

// ToolDefinition describes a tool the backend may invoke.
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// ToolCall is a tool invocation requested by the backend inside a reply.
type ToolCall struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// Usage captures token accounting from the backend.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Request is one conversation round sent to the backend.
type Request struct {
	System   string
	Tools    []ToolDefinition
	Messages []Message
}

// Reply is the backend's answer to a Request.
type Reply struct {
	// TextBlocks holds the text blocks in reply order.
	TextBlocks []string
	// ToolCalls holds tool invocations in reply order; empty when the
	// backend answered directly.
	ToolCalls []ToolCall
	// Assistant is the raw assistant message, suitable for appending to the
	// outgoing turn list before sending tool results back.
	Assistant  Message
	StopReason string
	Usage      Usage
}

// Text returns the first text block, or "" if the reply carried none.
func (r *Reply) Text() string {
	if len(r.TextBlocks) == 0 {
		return ""
	}
	return r.TextBlocks[0]
}

// Client is the conversation backend boundary.
type Client interface {
	Converse(ctx context.Context, req *Request) (*Reply, error)
}

// ErrNotConfigured indicates the backend has no credentials.
var ErrNotConfigured = errors.New("llm: backend not configured")

// BackendError wraps a request-level backend failure. It is the only failure
// that aborts a whole assistant query.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("llm backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }
