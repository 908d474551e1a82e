package config

import "time"

// UIConfig configures terminal output.
type UIConfig struct {
	Theme        string `yaml:"theme"`
	Pace         string `yaml:"pace"`
	SettingsFile string `yaml:"settings_file"`
	HotkeysFile  string `yaml:"hotkeys_file"`
}

// GetPace returns the output pacing delay as a duration.
func (c *Config) GetPace() time.Duration {
	d, err := time.ParseDuration(c.UI.Pace)
	if err != nil {
		return 150 * time.Millisecond
	}
	return d
}
