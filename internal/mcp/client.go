package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dashterm/internal/logging"
)

// Transport abstracts the wire protocol to the tool host.
type Transport interface {
	Connect(ctx context.Context) error
	Disconnect() error
	IsConnected() bool
	GetCapabilities(ctx context.Context) (*Capabilities, error)
	ListTools(ctx context.Context) ([]ToolSchema, error)
	ListResources(ctx context.Context) ([]ResourceSchema, error)
	CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error)
	GetObject(ctx context.Context, id string) (map[string]interface{}, error)
}

// Client manages the connection to the configured tool host and caches its
// catalog between queries.
type Client struct {
	mu sync.RWMutex

	transport Transport
	status    ServerStatus
	caps      *Capabilities
	tools     []ToolSchema
	resources []ResourceSchema
}

// NewClient creates a client from config. Returns nil when the tool host is
// disabled, which callers treat as "no tool host".
func NewClient(cfg ServerConfig) *Client {
	if !cfg.Enabled || cfg.BaseURL == "" {
		return nil
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil || timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		transport: NewHTTPTransport(cfg.BaseURL, timeout),
		status:    StatusUnknown,
	}
}

// NewClientWithTransport wires a custom transport; used by tests.
func NewClientWithTransport(t Transport) *Client {
	return &Client{transport: t, status: StatusUnknown}
}

// Connect establishes the connection and discovers the catalog.
func (c *Client) Connect(ctx context.Context) error {
	c.setStatus(StatusConnecting)
	if err := c.transport.Connect(ctx); err != nil {
		c.setStatus(StatusError)
		return err
	}

	caps, err := c.transport.GetCapabilities(ctx)
	if err != nil {
		logging.Get(logging.CategoryTools).Warn("tool host capabilities unavailable: %v", err)
	}

	var tools []ToolSchema
	if caps == nil || caps.Tools {
		tools, err = c.transport.ListTools(ctx)
		if err != nil {
			logging.Get(logging.CategoryTools).Warn("tool discovery failed: %v", err)
		}
	}

	var resources []ResourceSchema
	if caps != nil && caps.Resources {
		resources, err = c.transport.ListResources(ctx)
		if err != nil {
			logging.Get(logging.CategoryTools).Warn("resource discovery failed: %v", err)
		}
	}

	c.mu.Lock()
	c.caps = caps
	c.tools = tools
	c.resources = resources
	c.status = StatusConnected
	c.mu.Unlock()

	logging.Get(logging.CategoryTools).Info("tool host connected: %d tools, %d resources", len(tools), len(resources))
	return nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() error {
	err := c.transport.Disconnect()
	c.setStatus(StatusDisconnected)
	return err
}

// Connected reports whether the client holds a live connection. A nil client
// counts as not connected so call sites can skip the nil check.
func (c *Client) Connected() bool {
	if c == nil {
		return false
	}
	return c.transport.IsConnected()
}

// Tools returns the cached tool catalog.
func (c *Client) Tools() []ToolSchema {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ToolSchema, len(c.tools))
	copy(out, c.tools)
	return out
}

// Resources returns the cached resource catalog.
func (c *Client) Resources() []ResourceSchema {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ResourceSchema, len(c.resources))
	copy(out, c.resources)
	return out
}

// CallTool invokes a tool on the host. Failures come back as
// *ToolExecutionError so the orchestrator can fold them into the round
// without aborting sibling calls.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error) {
	start := time.Now()
	result, err := c.transport.CallTool(ctx, name, args)
	if err != nil {
		logging.Get(logging.CategoryTools).Warn("tool call %s failed after %v: %v", name, time.Since(start), err)
		return nil, &ToolExecutionError{Tool: name, Err: err}
	}
	if result.IsError {
		logging.Get(logging.CategoryTools).Warn("tool call %s reported error: %s", name, result.Text())
		return nil, &ToolExecutionError{Tool: name, Err: fmt.Errorf("%s", result.Text())}
	}
	logging.Get(logging.CategoryTools).Debug("tool call %s completed in %v", name, time.Since(start))
	return result, nil
}

// GetObject fetches entity metadata for a state id. The second return value
// is false when the host has no object under that id.
func (c *Client) GetObject(ctx context.Context, id string) (map[string]interface{}, bool, error) {
	obj, err := c.transport.GetObject(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return obj, obj != nil, nil
}

func (c *Client) setStatus(s ServerStatus) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Status returns the last observed connection status.
func (c *Client) Status() ServerStatus {
	if c == nil {
		return StatusDisconnected
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}
