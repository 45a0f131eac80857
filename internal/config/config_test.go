package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, 9, cfg.Palette.MaxResults)
	assert.Equal(t, 100, cfg.Palette.DebounceMs)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.Empty(t, cfg.Hidden)
	assert.Empty(t, cfg.Startup)
	require.NoError(t, cfg.Validate())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := NewConfig()
	cfg.Manifest = "/tmp/commands.yaml"
	cfg.Hidden = []string{"tool_brush"}
	cfg.Startup = []string{"menu:File/Open"}
	cfg.History.Backend = "file"
	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/commands.yaml", loaded.Manifest)
	assert.Equal(t, []string{"tool_brush"}, loaded.Hidden)
	assert.Equal(t, []string{"menu:File/Open"}, loaded.Startup)
	assert.Equal(t, "file", loaded.History.Backend)
	assert.Equal(t, 9, loaded.Palette.MaxResults)
}

func TestSaveCreatesBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	first := NewConfig()
	first.Manifest = "first.yaml"
	require.NoError(t, Save(first, path))

	second := NewConfig()
	second.Manifest = "second.yaml"
	require.NoError(t, Save(second, path))

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Contains(t, string(backup), "first.yaml")

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := NewConfig()
	cfg.History.Backend = "postgres"

	err := Save(cfg, path)
	require.Error(t, err)
	var invalid *InvalidConfigError
	assert.ErrorAs(t, err, &invalid)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadFromPartialFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hidden":["a"]}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, cfg.Hidden)
	assert.Equal(t, 9, cfg.Palette.MaxResults)
	assert.Equal(t, "sqlite", cfg.History.Backend)
	assert.NotNil(t, cfg.Startup)
}

func TestLoadFromNotFound(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var notFound *ConfigNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "palette init")
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{invalid json`), 0644))

	_, err := LoadFrom(path)
	var invalid *InvalidConfigError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), ".bak")
}

func TestLoadFromPermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0000))

	_, err := LoadFrom(path)
	var perm *PermissionError
	require.ErrorAs(t, err, &perm)
	assert.Equal(t, "read", perm.Op)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "chmod 644")
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Palette.MaxResults)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`nope`), 0644))
	_, err = LoadOrDefault(path)
	assert.Error(t, err)
}

func TestGetDefaultConfigPathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/palette.json")
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/palette.json", path)

	t.Setenv(EnvConfigPath, "")
	path, err = GetDefaultConfigPath()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".cmd-palette.json"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative results", func(c *Config) { c.Palette.MaxResults = -1 }, "maxResults"},
		{"negative debounce", func(c *Config) { c.Palette.DebounceMs = -5 }, "debounceMs"},
		{"unknown backend", func(c *Config) { c.History.Backend = "redis" }, "history.backend"},
		{"negative cap", func(c *Config) { c.History.MaxEvents = -1 }, "maxEvents"},
		{"empty startup id", func(c *Config) { c.Startup = []string{""} }, "empty command id"},
		{"duplicate startup id", func(c *Config) { c.Startup = []string{"a", "a"} }, "duplicate"},
		{"nil sections", func(c *Config) { c.Palette = nil; c.History = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHideUnhide(t *testing.T) {
	cfg := NewConfig()
	assert.True(t, cfg.Hide("a"))
	assert.False(t, cfg.Hide("a"))
	assert.True(t, cfg.Hide("b"))
	assert.Equal(t, []string{"a", "b"}, cfg.Hidden)

	assert.True(t, cfg.Unhide("a"))
	assert.False(t, cfg.Unhide("a"))
	assert.Equal(t, []string{"b"}, cfg.Hidden)
}

func TestManifestPathExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := NewConfig()
	cfg.Manifest = "~/cmds.yaml"
	path, err := cfg.ManifestPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cmds.yaml"), path)

	cfg.Manifest = ""
	path, err = cfg.ManifestPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".cmd-palette", "commands.yaml"), path)

	dir, err := cfg.HistoryDir()
	require.NoError(t, err)
	assert.Empty(t, dir)
}
