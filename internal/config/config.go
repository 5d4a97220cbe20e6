// Package config loads multisplice settings.
//
// Settings come from built-in defaults, then an optional TOML file, then
// MULTISPLICE_* environment variables. Command-line flags are applied on
// top by the caller.
package config

import (
	"time"

	"github.com/dshills/multisplice/internal/logging"
	"github.com/dshills/multisplice/internal/units"
)

// Config holds all settings.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Render RenderConfig `toml:"render"`
	Diff   DiffConfig   `toml:"diff"`
	Watch  WatchConfig  `toml:"watch"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// RenderConfig configures how script offsets are read.
type RenderConfig struct {
	Units string `toml:"units"`
}

// DiffConfig configures diff output.
type DiffConfig struct {
	Context int  `toml:"context"`
	Color   bool `toml:"color"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `toml:"debounce"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Render: RenderConfig{Units: "bytes"},
		Diff:   DiffConfig{Context: 3},
		Watch:  WatchConfig{Debounce: "150ms"},
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Message: err.Error()}
	}
	if _, err := units.ParseUnit(c.Render.Units); err != nil {
		return &ValidationError{Path: "render.units", Value: c.Render.Units, Message: err.Error()}
	}
	if c.Diff.Context < 0 {
		return &ValidationError{Path: "diff.context", Value: c.Diff.Context, Message: "must not be negative"}
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce, Message: err.Error()}
	}
	if d <= 0 {
		return &ValidationError{Path: "watch.debounce", Value: c.Watch.Debounce, Message: "must be positive"}
	}
	return nil
}

// LogLevel returns the parsed log level. Call Validate first.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// Units returns the parsed render unit. Call Validate first.
func (c *Config) Units() units.Unit {
	u, _ := units.ParseUnit(c.Render.Units)
	return u
}

// Debounce returns the parsed watch debounce. Call Validate first.
func (c *Config) Debounce() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}
