/*
Package config handles loading and saving cmd-palette configuration.

Configuration is stored in ~/.cmd-palette.json (override with the
CMD_PALETTE_CONFIG environment variable).

Schema:
  {
    "manifest": "~/.cmd-palette/commands.yaml",
    "palette": {
      "maxResults": 9,
      "debounceMs": 100
    },
    "history": {
      "backend": "sqlite",
      "dir": "~/.cmd-palette",
      "maxEvents": 0
    },
    "hidden": ["tool_brush"],
    "startup": ["menu:File/Open"]
  }

The hidden and startup lists are user preferences the palette reads but
never writes; only the CLI edits them.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "CMD_PALETTE_CONFIG"

// Config represents the root configuration structure.
type Config struct {
	// Manifest is the path of the YAML command manifest.
	Manifest string `json:"manifest,omitempty"`

	// Palette controls query behavior.
	Palette *PaletteSettings `json:"palette,omitempty"`

	// History controls interaction log persistence.
	History *HistorySettings `json:"history,omitempty"`

	// Hidden lists command ids excluded from results.
	Hidden []string `json:"hidden,omitempty"`

	// Startup lists command ids pinned to the top of the empty query.
	Startup []string `json:"startup,omitempty"`
}

// PaletteSettings controls query behavior.
type PaletteSettings struct {
	// MaxResults is the number of results shown at once.
	MaxResults int `json:"maxResults,omitempty"`

	// DebounceMs is the keystroke coalescing window in milliseconds.
	DebounceMs int `json:"debounceMs,omitempty"`
}

// HistorySettings controls interaction log persistence.
type HistorySettings struct {
	// Backend is one of "sqlite", "file" or "memory".
	Backend string `json:"backend,omitempty"`

	// Dir is the data directory.
	Dir string `json:"dir,omitempty"`

	// MaxEvents caps the log length; 0 keeps everything.
	MaxEvents int `json:"maxEvents,omitempty"`
}

// NewConfig creates a configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Palette: &PaletteSettings{
			MaxResults: 9,
			DebounceMs: 100,
		},
		History: &HistorySettings{
			Backend: "sqlite",
		},
		Hidden:  []string{},
		Startup: []string{},
	}
}

// applyDefaults fills nil sections and zero values.
func (c *Config) applyDefaults() {
	def := NewConfig()
	if c.Palette == nil {
		c.Palette = def.Palette
	}
	if c.Palette.MaxResults == 0 {
		c.Palette.MaxResults = def.Palette.MaxResults
	}
	if c.History == nil {
		c.History = def.History
	}
	if c.History.Backend == "" {
		c.History.Backend = def.History.Backend
	}
	if c.Hidden == nil {
		c.Hidden = []string{}
	}
	if c.Startup == nil {
		c.Startup = []string{}
	}
}

// GetDefaultConfigPath returns $CMD_PALETTE_CONFIG or ~/.cmd-palette.json.
func GetDefaultConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cmd-palette.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadOrDefault reads the configuration at path, falling back to defaults
// when the file does not exist. Other errors are returned.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// ManifestPath returns the manifest path with ~ expanded, defaulting to
// ~/.cmd-palette/commands.yaml.
func (c *Config) ManifestPath() (string, error) {
	if c.Manifest != "" {
		return expandHome(c.Manifest)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cmd-palette", "commands.yaml"), nil
}

// HistoryDir returns the data directory with ~ expanded. Empty means the
// storage default.
func (c *Config) HistoryDir() (string, error) {
	if c.History == nil || c.History.Dir == "" {
		return "", nil
	}
	return expandHome(c.History.Dir)
}

// Hide adds id to the hidden list. It reports whether the list changed.
func (c *Config) Hide(id string) bool {
	for _, h := range c.Hidden {
		if h == id {
			return false
		}
	}
	c.Hidden = append(c.Hidden, id)
	return true
}

// Unhide removes id from the hidden list. It reports whether the list changed.
func (c *Config) Unhide(id string) bool {
	for i, h := range c.Hidden {
		if h == id {
			c.Hidden = append(c.Hidden[:i], c.Hidden[i+1:]...)
			return true
		}
	}
	return false
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
