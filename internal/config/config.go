// Package config loads dashterm configuration from YAML with environment
// overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all dashterm configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// LLM backend
	LLM LLMConfig `yaml:"llm"`

	// Tool host (JSON-RPC state backend)
	ToolHost ToolHostConfig `yaml:"tool_host"`

	// Object directory fallback
	Directory DirectoryConfig `yaml:"directory"`

	// Conversation settings
	Assist AssistConfig `yaml:"assist"`

	// UI and output pacing
	UI UIConfig `yaml:"ui"`

	// Transcript archive
	Transcript TranscriptConfig `yaml:"transcript"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AssistConfig configures the conversation pipeline.
type AssistConfig struct {
	MaxHistory int `yaml:"max_history"`
}

// TranscriptConfig configures the exchange archive.
type TranscriptConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".dashterm")
	return &Config{
		Name:    "dashterm",
		Version: "1.0.0",

		LLM: LLMConfig{
			Model:   "claude-sonnet-4-5",
			BaseURL: "https://api.anthropic.com/v1",
			Timeout: "120s",
		},

		ToolHost: ToolHostConfig{
			Enabled: true,
			BaseURL: "http://localhost:8090",
			Timeout: "30s",
		},

		Directory: DirectoryConfig{
			Enabled: true,
			BaseURL: "http://localhost:8091",
			Timeout: "10s",
		},

		Assist: AssistConfig{
			MaxHistory: 20,
		},

		UI: UIConfig{
			Theme:        "default",
			Pace:         "150ms",
			SettingsFile: filepath.Join(base, "settings.yaml"),
			HotkeysFile:  filepath.Join(base, "hotkeys.yaml"),
		},

		Transcript: TranscriptConfig{
			Enabled:      true,
			DatabasePath: filepath.Join(base, "transcript.db"),
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults;
// environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("DASHTERM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("DASHTERM_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if url := os.Getenv("DASHTERM_TOOL_HOST_URL"); url != "" {
		c.ToolHost.BaseURL = url
	}
	if url := os.Getenv("DASHTERM_DIRECTORY_URL"); url != "" {
		c.Directory.BaseURL = url
	}
	if path := os.Getenv("DASHTERM_DB"); path != "" {
		c.Transcript.DatabasePath = path
	}
}

// Validate checks configuration needed before talking to the backend.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set DASHTERM_API_KEY or ANTHROPIC_API_KEY)")
	}
	if c.Assist.MaxHistory < 0 {
		return fmt.Errorf("assist.max_history must not be negative")
	}
	return nil
}
