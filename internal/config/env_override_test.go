package config

import (
	"path/filepath"
	"testing"
)

func TestEnvOverridesApiKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("DASHTERM_API_KEY", "sk-dash")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-dash" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestEnvAnthropicKeyIsFallback(t *testing.T) {
	t.Setenv("DASHTERM_API_KEY", "sk-dash")
	t.Setenv("ANTHROPIC_API_KEY", "sk-anthropic")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// DASHTERM_API_KEY wins over the generic key.
	if cfg.LLM.APIKey != "sk-dash" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}

	t.Setenv("DASHTERM_API_KEY", "")
	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.APIKey != "sk-anthropic" {
		t.Errorf("api key = %q", cfg.LLM.APIKey)
	}
}

func TestEnvOverridesEndpoints(t *testing.T) {
	t.Setenv("DASHTERM_TOOL_HOST_URL", "http://host:9999")
	t.Setenv("DASHTERM_DIRECTORY_URL", "http://dir:9998")
	t.Setenv("DASHTERM_DB", "/tmp/x.db")
	t.Setenv("DASHTERM_MODEL", "claude-opus-4-1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ToolHost.BaseURL != "http://host:9999" {
		t.Errorf("tool host = %q", cfg.ToolHost.BaseURL)
	}
	if cfg.Directory.BaseURL != "http://dir:9998" {
		t.Errorf("directory = %q", cfg.Directory.BaseURL)
	}
	if cfg.Transcript.DatabasePath != "/tmp/x.db" {
		t.Errorf("db = %q", cfg.Transcript.DatabasePath)
	}
	if cfg.LLM.Model != "claude-opus-4-1" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
}
