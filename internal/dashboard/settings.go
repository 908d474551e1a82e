package dashboard

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the persisted user preferences of the dashboard.
type Settings struct {
	Theme      string `yaml:"theme"`
	MaxHistory int    `yaml:"max_history"`
	Hotkeys    string `yaml:"hotkeys_file,omitempty"`
}

// DefaultSettings returns the settings used before any file exists.
func DefaultSettings() Settings {
	return Settings{Theme: "default", MaxHistory: 20}
}

// LoadSettings reads settings from path. A missing file yields defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.Theme == "" {
		s.Theme = "default"
	}
	if s.MaxHistory <= 0 {
		s.MaxHistory = 20
	}
	return s, nil
}

// SaveSettings writes settings to path, creating parent directories.
func SaveSettings(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
