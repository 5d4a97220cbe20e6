package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "MULTISPLICE_"

// envSetting binds one environment variable to a setting.
type envSetting struct {
	name  string
	path  string
	apply func(cfg *Config, value string) error
}

var envSettings = []envSetting{
	{EnvPrefix + "LOG_LEVEL", "log.level", func(cfg *Config, v string) error {
		cfg.Log.Level = v
		return nil
	}},
	{EnvPrefix + "UNITS", "render.units", func(cfg *Config, v string) error {
		cfg.Render.Units = v
		return nil
	}},
	{EnvPrefix + "DIFF_CONTEXT", "diff.context", func(cfg *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		cfg.Diff.Context = n
		return nil
	}},
	{EnvPrefix + "DIFF_COLOR", "diff.color", func(cfg *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		cfg.Diff.Color = b
		return nil
	}},
	{EnvPrefix + "WATCH_DEBOUNCE", "watch.debounce", func(cfg *Config, v string) error {
		cfg.Watch.Debounce = v
		return nil
	}},
}

// applyEnv overlays environment variables on cfg.
// Empty values are treated as valid values, not as unset.
func (l *Loader) applyEnv(cfg *Config) error {
	for _, s := range envSettings {
		v, ok := l.lookupEnv(s.name)
		if !ok {
			continue
		}
		if err := s.apply(cfg, v); err != nil {
			return &ValidationError{
				Path:    s.path,
				Value:   v,
				Message: fmt.Sprintf("from %s: %v", s.name, err),
			}
		}
	}
	return nil
}
