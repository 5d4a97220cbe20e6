package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a script file format.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
	JSON Format = "json"
	Lua  Format = "lua"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return TOML, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "lua":
		return Lua, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath determines the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// IsDeclarative reports whether the format decodes into a Script.
func (f Format) IsDeclarative() bool {
	return f == TOML || f == YAML || f == JSON
}

// Decode parses a declarative script. Unknown fields are rejected.
func Decode(f Format, data []byte) (*Script, error) {
	var sc Script
	var err error

	switch f {
	case TOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&sc)
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&sc)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&sc)
	case Lua:
		return nil, ErrNotDeclarative
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s script: %w", f, err)
	}
	return &sc, nil
}

// Encode serializes a script in the given declarative format.
func Encode(f Format, sc *Script) ([]byte, error) {
	switch f {
	case TOML:
		return toml.Marshal(sc)
	case YAML:
		return yaml.Marshal(sc)
	case JSON:
		data, err := json.MarshalIndent(sc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case Lua:
		return nil, ErrNotDeclarative
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Load reads and decodes a declarative script file, choosing the format
// from its extension, and validates it.
func Load(path string) (*Script, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if !f.IsDeclarative() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotDeclarative)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}

	sc, err := Decode(f, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}
