package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"dashterm/internal/logging"
)

// HTTPTransport speaks JSON-RPC 2.0 to the tool host over HTTP.
type HTTPTransport struct {
	mu sync.Mutex

	baseURL    string
	client     *http.Client
	connected  bool
	serverInfo *Capabilities
	nextID     int
}

// NewHTTPTransport creates an HTTP transport for the tool host.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Connect verifies the endpoint by requesting capabilities.
func (t *HTTPTransport) Connect(ctx context.Context) error {
	caps, err := t.getCapabilities(ctx)
	if err != nil {
		t.mu.Lock()
		t.connected = false
		t.mu.Unlock()
		return fmt.Errorf("connect to tool host at %s: %w", t.baseURL, err)
	}

	t.mu.Lock()
	t.serverInfo = caps
	t.connected = true
	t.mu.Unlock()
	logging.Get(logging.CategoryTools).Info("tool host transport connected to %s", t.baseURL)
	return nil
}

// Disconnect drops the connection state.
func (t *HTTPTransport) Disconnect() error {
	t.mu.Lock()
	t.connected = false
	t.serverInfo = nil
	t.mu.Unlock()
	return nil
}

// IsConnected reports whether Connect succeeded.
func (t *HTTPTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// GetCapabilities returns the capabilities reported on connect.
func (t *HTTPTransport) GetCapabilities(ctx context.Context) (*Capabilities, error) {
	t.mu.Lock()
	if t.serverInfo != nil {
		caps := *t.serverInfo
		t.mu.Unlock()
		return &caps, nil
	}
	t.mu.Unlock()
	return t.getCapabilities(ctx)
}

func (t *HTTPTransport) getCapabilities(ctx context.Context) (*Capabilities, error) {
	resp, err := t.call(ctx, "initialize", nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Capabilities Capabilities `json:"capabilities"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parse capabilities: %w", err)
	}
	return &result.Capabilities, nil
}

// ListTools retrieves the tool catalog from the host.
func (t *HTTPTransport) ListTools(ctx context.Context) ([]ToolSchema, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	resp, err := t.call(ctx, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	var result struct {
		Tools []ToolSchema `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parse tools response: %w", err)
	}
	logging.Get(logging.CategoryTools).Debug("tool host returned %d tools", len(result.Tools))
	return result.Tools, nil
}

// ListResources retrieves the resource catalog from the host.
func (t *HTTPTransport) ListResources(ctx context.Context) ([]ResourceSchema, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	resp, err := t.call(ctx, "resources/list", nil)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	var result struct {
		Resources []ResourceSchema `json:"resources"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parse resources response: %w", err)
	}
	return result.Resources, nil
}

// CallTool invokes a named tool on the host.
func (t *HTTPTransport) CallTool(ctx context.Context, name string, args map[string]interface{}) (*CallResult, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	resp, err := t.call(ctx, "tools/call", params)
	if err != nil {
		return nil, err
	}
	var result CallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parse call result: %w", err)
	}
	return &result, nil
}

// GetObject fetches entity metadata for a state id directly from the host.
// A null result means the object does not exist.
func (t *HTTPTransport) GetObject(ctx context.Context, id string) (map[string]interface{}, error) {
	if err := t.requireConnected(); err != nil {
		return nil, err
	}
	resp, err := t.call(ctx, "objects/get", map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", id, err)
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(resp.Result, &obj); err != nil {
		return nil, fmt.Errorf("parse object %s: %w", id, err)
	}
	return obj, nil
}

func (t *HTTPTransport) requireConnected() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return fmt.Errorf("not connected to tool host")
	}
	return nil
}

func (t *HTTPTransport) call(ctx context.Context, method string, params interface{}) (*rpcResponse, error) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.mu.Unlock()

	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("%s: parse response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return &rpcResp, nil
}
