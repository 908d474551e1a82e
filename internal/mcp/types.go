// Package mcp provides the tool-host client: capability discovery, tool
// invocation, and direct object metadata lookups over a JSON-RPC HTTP
// endpoint.
package mcp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ServerStatus represents the connection status of the tool host.
type ServerStatus string

const (
	StatusUnknown      ServerStatus = "unknown"
	StatusConnecting   ServerStatus = "connecting"
	StatusConnected    ServerStatus = "connected"
	StatusDisconnected ServerStatus = "disconnected"
	StatusError        ServerStatus = "error"
)

// ServerConfig configures the tool host connection.
type ServerConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// Capabilities reported by the tool host on connect.
type Capabilities struct {
	Tools     bool `json:"tools"`
	Resources bool `json:"resources"`
	Objects   bool `json:"objects"`
}

// ToolSchema is a tool as advertised by the host.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ResourceSchema is a readable resource advertised by the host.
type ResourceSchema struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ResultContent is one content item of a tool call result.
type ResultContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// CallResult is the outcome of a tool invocation on the host.
type CallResult struct {
	Content []ResultContent `json:"content"`
	IsError bool            `json:"isError,omitempty"`
}

// Text joins the textual content items of a result.
func (r *CallResult) Text() string {
	var parts []string
	for _, c := range r.Content {
		if c.Type == "text" && c.Text != "" {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// ToolExecutionError reports a single failed tool invocation. It never
// aborts a tool round; the orchestrator folds it into an error-tagged
// tool-result turn instead.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %s: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }
