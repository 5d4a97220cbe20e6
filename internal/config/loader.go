package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// FileSystem is an abstraction for reading config files.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader builds a Config from defaults, a TOML file and the environment.
type Loader struct {
	fs        FileSystem
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader reading the real file system and environment.
func NewLoader() *Loader {
	return &Loader{
		fs:        OSFS{},
		lookupEnv: os.LookupEnv,
	}
}

// NewLoaderWithFS creates a loader with a custom file system and
// environment lookup. A nil lookup reads the process environment.
func NewLoaderWithFS(fsys FileSystem, lookupEnv func(string) (string, bool)) *Loader {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &Loader{fs: fsys, lookupEnv: lookupEnv}
}

// Load reads the config file at path and overlays the environment.
//
// An empty path means DefaultPath, which need not exist. A path given
// explicitly must exist. The result is validated.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	if path != "" {
		if err := l.loadFile(cfg, path, explicit); err != nil {
			return nil, err
		}
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

func (l *Loader) loadFile(cfg *Config, path string, explicit bool) error {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil // Default file doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(cfg, path, data)
}

// parse decodes TOML data over cfg. Unknown keys are rejected.
func parse(cfg *Config, source string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/multisplice/config.toml, falling
// back to ~/.config. It returns "" if neither can be determined.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "multisplice", "config.toml")
}
