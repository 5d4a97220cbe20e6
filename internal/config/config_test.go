package config

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/multisplice/internal/logging"
	"github.com/dshills/multisplice/internal/units"
)

// memFS is an in-memory file system for testing.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, logging.LevelInfo, cfg.LogLevel())
	assert.Equal(t, units.Bytes, cfg.Units())
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 3, cfg.Diff.Context)
	assert.False(t, cfg.Diff.Color)
}

func TestLoadFile(t *testing.T) {
	fsys := memFS{"/etc/ms.toml": `
[log]
level = "debug"

[render]
units = "graphemes"

[diff]
context = 5
color = true

[watch]
debounce = "1s"
`}

	cfg, err := NewLoaderWithFS(fsys, env(nil)).Load("/etc/ms.toml")
	require.NoError(t, err)

	want := &Config{
		Log:    LogConfig{Level: "debug"},
		Render: RenderConfig{Units: "graphemes"},
		Diff:   DiffConfig{Context: 5, Color: true},
		Watch:  WatchConfig{Debounce: "1s"},
	}
	assert.Empty(t, cmp.Diff(want, cfg), "Load mismatch (-want +got)")
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	fsys := memFS{"/c.toml": "[diff]\ncontext = 0\n"}

	cfg, err := NewLoaderWithFS(fsys, env(nil)).Load("/c.toml")
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Diff.Context)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "150ms", cfg.Watch.Debounce)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := NewLoaderWithFS(memFS{}, env(nil)).Load("/missing.toml")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadDefaultPathMayBeMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent-xdg")

	cfg, err := NewLoaderWithFS(memFS{}, env(nil)).Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/multisplice/config.toml", DefaultPath())
}

func TestLoadParseError(t *testing.T) {
	fsys := memFS{"/bad.toml": "[log]\nlevel = \n"}

	_, err := NewLoaderWithFS(fsys, env(nil)).Load("/bad.toml")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Positive(t, perr.Line)
	assert.Contains(t, err.Error(), "/bad.toml")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fsys := memFS{"/c.toml": "[render]\nunit = \"runes\"\n"}

	_, err := NewLoaderWithFS(fsys, env(nil)).Load("/c.toml")
	var perr *ParseError
	assert.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
}

func TestEnvOverridesFile(t *testing.T) {
	fsys := memFS{"/c.toml": "[log]\nlevel = \"debug\"\n[diff]\ncontext = 5\n"}
	vars := map[string]string{
		"MULTISPLICE_LOG_LEVEL":      "error",
		"MULTISPLICE_UNITS":          "runes",
		"MULTISPLICE_DIFF_CONTEXT":   "1",
		"MULTISPLICE_DIFF_COLOR":     "true",
		"MULTISPLICE_WATCH_DEBOUNCE": "2s",
	}

	cfg, err := NewLoaderWithFS(fsys, env(vars)).Load("/c.toml")
	require.NoError(t, err)

	assert.Equal(t, logging.LevelError, cfg.LogLevel())
	assert.Equal(t, units.Runes, cfg.Units())
	assert.Equal(t, 1, cfg.Diff.Context)
	assert.True(t, cfg.Diff.Color)
	assert.Equal(t, 2*time.Second, cfg.Debounce())
}

func TestEnvBadValues(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		path string
	}{
		{"context not a number", map[string]string{"MULTISPLICE_DIFF_CONTEXT": "many"}, "diff.context"},
		{"color not a bool", map[string]string{"MULTISPLICE_DIFF_COLOR": "sometimes"}, "diff.color"},
		{"empty level is a value", map[string]string{"MULTISPLICE_LOG_LEVEL": ""}, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoaderWithFS(memFS{"/c.toml": ""}, env(tt.vars)).Load("/c.toml")
			require.ErrorIs(t, err, ErrValidationFailed)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad units", func(c *Config) { c.Render.Units = "words" }, "render.units"},
		{"negative context", func(c *Config) { c.Diff.Context = -1 }, "diff.context"},
		{"bad duration", func(c *Config) { c.Watch.Debounce = "soon" }, "watch.debounce"},
		{"zero duration", func(c *Config) { c.Watch.Debounce = "0s" }, "watch.debounce"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrValidationFailed)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.path, verr.Path)
		})
	}
}
