package config

import "fmt"

var knownBackends = map[string]bool{
	"sqlite": true,
	"file":   true,
	"memory": true,
}

// Validate checks settings for values the palette cannot use.
func (c *Config) Validate() error {
	if c.Palette != nil {
		if c.Palette.MaxResults < 0 {
			return fmt.Errorf("palette.maxResults must be positive, got %d", c.Palette.MaxResults)
		}
		if c.Palette.DebounceMs < 0 {
			return fmt.Errorf("palette.debounceMs must not be negative, got %d", c.Palette.DebounceMs)
		}
	}

	if c.History != nil {
		if c.History.Backend != "" && !knownBackends[c.History.Backend] {
			return fmt.Errorf("history.backend %q is not one of sqlite, file, memory", c.History.Backend)
		}
		if c.History.MaxEvents < 0 {
			return fmt.Errorf("history.maxEvents must not be negative, got %d", c.History.MaxEvents)
		}
	}

	seen := make(map[string]bool, len(c.Startup))
	for _, id := range c.Startup {
		if id == "" {
			return fmt.Errorf("startup: empty command id")
		}
		if seen[id] {
			return fmt.Errorf("startup: duplicate command id %q", id)
		}
		seen[id] = true
	}

	return nil
}
