package config

import "time"

// ToolHostConfig configures the JSON-RPC tool host.
type ToolHostConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// DirectoryConfig configures the HTTP object directory used when the tool
// host is down.
type DirectoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// GetToolHostTimeout returns the tool host timeout as a duration.
func (c *Config) GetToolHostTimeout() time.Duration {
	d, err := time.ParseDuration(c.ToolHost.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetDirectoryTimeout returns the directory timeout as a duration.
func (c *Config) GetDirectoryTimeout() time.Duration {
	d, err := time.ParseDuration(c.Directory.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}
