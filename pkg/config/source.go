package config

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/shinkansen/pkg/errors"
)

// Format is the syntax of a variable file
type Format int

const (
	FormatNone Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

// String returns the display name of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatYAML:
		return "YAML"
	case FormatTOML:
		return "TOML"
	default:
		return "none"
	}
}

// Source identifies where variables come from
type Source struct {
	Format Format
	Path   string
}

// IsNone reports whether no variable file was requested
func (s Source) IsNone() bool {
	return s.Format == FormatNone
}

// SourceFor picks the format of path from its extension.
// An empty path is FormatNone.
func SourceFor(path string) (Source, error) {
	if path == "" {
		return Source{}, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return Source{Format: FormatJSON, Path: path}, nil
	case ".yaml", ".yml":
		return Source{Format: FormatYAML, Path: path}, nil
	case ".toml":
		return Source{Format: FormatTOML, Path: path}, nil
	}

	return Source{}, errors.Newf(errors.ErrUnsupportedFormat,
		"unsupported config format '%s' for %s (use .json, .yaml, .yml or .toml)", ext, path).
		WithDetail("path", path).
		WithDetail("extension", ext)
}
