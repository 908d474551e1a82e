package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeHost(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
			return
		}
		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		switch req.Method {
		case "initialize":
			resp.Result = json.RawMessage(`{"capabilities":{"tools":true,"resources":true,"objects":true}}`)
		case "tools/list":
			resp.Result = json.RawMessage(`{"tools":[{"name":"get-state","description":"Read a state value","inputSchema":{"type":"object"}}]}`)
		case "resources/list":
			resp.Result = json.RawMessage(`{"resources":[{"uri":"states://all","name":"states"}]}`)
		case "tools/call":
			var params struct {
				Name string `json:"name"`
			}
			raw, _ := json.Marshal(req.Params)
			_ = json.Unmarshal(raw, &params)
			if params.Name == "broken" {
				resp.Result = json.RawMessage(`{"content":[{"type":"text","text":"boom"}],"isError":true}`)
			} else {
				resp.Result = json.RawMessage(`{"content":[{"type":"text","text":"21.5"}]}`)
			}
		case "objects/get":
			var params struct {
				ID string `json:"id"`
			}
			raw, _ := json.Marshal(req.Params)
			_ = json.Unmarshal(raw, &params)
			if params.ID == "modbus.2.holdingRegisters.temp" {
				resp.Result = json.RawMessage(`{"_id":"modbus.2.holdingRegisters.temp","type":"state","common":{"name":"Temperature","type":"number","role":"value.temperature","unit":"C","min":-40,"max":120,"write":false}}`)
			} else {
				resp.Result = json.RawMessage(`null`)
			}
		default:
			resp.Error = &rpcError{Code: -32601, Message: "method not found"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func connectedClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c := NewClient(ServerConfig{Enabled: true, BaseURL: srv.URL, Timeout: "5s"})
	if c == nil {
		t.Fatal("NewClient returned nil for enabled config")
	}
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return c
}

func TestNewClientDisabled(t *testing.T) {
	if c := NewClient(ServerConfig{Enabled: false, BaseURL: "http://localhost:1"}); c != nil {
		t.Fatal("expected nil client for disabled config")
	}
	var c *Client
	if c.Connected() {
		t.Fatal("nil client must report not connected")
	}
	if c.Tools() != nil {
		t.Fatal("nil client must report empty catalog")
	}
}

func TestConnectDiscoversCatalog(t *testing.T) {
	srv := newFakeHost(t)
	defer srv.Close()
	c := connectedClient(t, srv)

	if !c.Connected() {
		t.Fatal("client not connected")
	}
	tools := c.Tools()
	if len(tools) != 1 || tools[0].Name != "get-state" {
		t.Fatalf("tools = %+v", tools)
	}
	if res := c.Resources(); len(res) != 1 || res[0].URI != "states://all" {
		t.Fatalf("resources = %+v", res)
	}
	if c.Status() != StatusConnected {
		t.Fatalf("status = %s", c.Status())
	}
}

func TestCallTool(t *testing.T) {
	srv := newFakeHost(t)
	defer srv.Close()
	c := connectedClient(t, srv)

	result, err := c.CallTool(context.Background(), "get-state", map[string]interface{}{"id": "x"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result.Text() != "21.5" {
		t.Fatalf("result text = %q", result.Text())
	}
}

func TestCallToolErrorIsToolExecutionError(t *testing.T) {
	srv := newFakeHost(t)
	defer srv.Close()
	c := connectedClient(t, srv)

	_, err := c.CallTool(context.Background(), "broken", nil)
	var te *ToolExecutionError
	if !errors.As(err, &te) {
		t.Fatalf("err = %v, want *ToolExecutionError", err)
	}
	if te.Tool != "broken" {
		t.Fatalf("Tool = %q", te.Tool)
	}
}

func TestGetObject(t *testing.T) {
	srv := newFakeHost(t)
	defer srv.Close()
	c := connectedClient(t, srv)

	obj, exists, err := c.GetObject(context.Background(), "modbus.2.holdingRegisters.temp")
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if !exists {
		t.Fatal("object should exist")
	}
	if obj["type"] != "state" {
		t.Fatalf("obj = %+v", obj)
	}

	_, exists, err = c.GetObject(context.Background(), "nope.0.missing")
	if err != nil {
		t.Fatalf("GetObject missing: %v", err)
	}
	if exists {
		t.Fatal("missing object reported as existing")
	}
}
