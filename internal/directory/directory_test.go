package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewDisabled(t *testing.T) {
	if d := New(Config{Enabled: false, BaseURL: "http://localhost:1"}); d != nil {
		t.Fatal("expected nil directory for disabled config")
	}
}

func TestGetObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/objects/hm-rpc.0.lights.state":
			_, _ = w.Write([]byte(`{"_id":"hm-rpc.0.lights.state","type":"state","common":{"name":"Lights","type":"boolean","role":"switch","write":true}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	d := New(Config{Enabled: true, BaseURL: srv.URL, Timeout: "5s"})
	if d == nil {
		t.Fatal("New returned nil")
	}

	obj, err := d.GetObject(context.Background(), "hm-rpc.0.lights.state")
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if obj == nil || obj["type"] != "state" {
		t.Fatalf("obj = %+v", obj)
	}

	obj, err = d.GetObject(context.Background(), "nope.0.missing")
	if err != nil {
		t.Fatalf("GetObject missing: %v", err)
	}
	if obj != nil {
		t.Fatalf("missing object = %+v, want nil", obj)
	}
}
