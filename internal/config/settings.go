package config

import (
	"os"

	"github.com/bytedance/sonic"
)

// Settings is the persisted user configuration: key bindings, theme
// colors, and ingestion behavior. Created with defaults on first run.
type Settings struct {
	Keybindings map[string]string `json:"keybindings"`
	Theme       Theme             `json:"theme"`
	AI          AISettings        `json:"ai_settings"`
}

// Theme holds display colors.
type Theme struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
}

// AISettings controls the ingestion engine.
type AISettings struct {
	AutoParse       bool `json:"auto_parse"`
	OfflineFallback bool `json:"offline_fallback"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Keybindings: map[string]string{
			// Navigation
			"move_down":   "j",
			"move_up":     "k",
			"goto_top":    "gg",
			"goto_bottom": "G",

			// Actions
			"toggle_done":     "space",
			"delete_task":     "d",
			"edit_task":       "e",
			"priority_low":    "1",
			"priority_medium": "2",
			"priority_high":   "3",

			// Mode
			"command_mode": ":",
			"help":         "?",
			"quit":         "q",
		},
		Theme: Theme{
			PrimaryColor:   "cyan",
			SecondaryColor: "yellow",
			AccentColor:    "green",
		},
		AI: AISettings{
			AutoParse:       true,
			OfflineFallback: true,
		},
	}
}

// LoadSettings reads the settings file, writing defaults on first run.
// An unreadable or malformed file falls back to defaults rather than
// failing: settings are never a fatal condition.
func (c *Config) LoadSettings() Settings {
	data, err := os.ReadFile(c.SettingsPath())
	if err != nil {
		s := DefaultSettings()
		_ = c.SaveSettings(s)
		return s
	}
	var s Settings
	if err := sonic.Unmarshal(data, &s); err != nil || s.Keybindings == nil {
		return DefaultSettings()
	}
	return s
}

// SaveSettings writes the settings file, creating the directory if
// needed.
func (c *Config) SaveSettings(s Settings) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := sonic.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.SettingsPath(), data, 0600)
}
