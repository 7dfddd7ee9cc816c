package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/value"
)

// Load reads the variable file at path. An empty path yields a nil map.
func Load(fsys filesystem.FS, path string) (value.Map, error) {
	src, err := SourceFor(path)
	if err != nil {
		return nil, err
	}
	return LoadSource(fsys, src)
}

// LoadSource reads and parses src
func LoadSource(fsys filesystem.FS, src Source) (value.Map, error) {
	if src.IsNone() {
		return nil, nil
	}

	logger := logging.GetLogger("config").With().
		Str("path", src.Path).
		Str("format", src.Format.String()).
		Logger()

	data, err := fsys.ReadFile(src.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to read config file %s", src.Path).
			WithDetail("path", src.Path)
	}

	vars, err := Parse(src.Format, data, src.Path)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("keys", len(vars)).Msg("Loaded config file")
	return vars, nil
}

// Parse decodes data in the given format. name is only used in messages.
func Parse(format Format, data []byte, name string) (value.Map, error) {
	var (
		doc any
		err error
	)

	switch format {
	case FormatJSON:
		doc, err = decodeJSON(data, name)
	case FormatYAML:
		doc, err = decodeYAML(data, name)
	case FormatTOML:
		doc, err = decodeTOML(data, name)
	default:
		return nil, errors.Newf(errors.ErrUnsupportedFormat,
			"unsupported config format for %s", name).
			WithDetail("path", name)
	}
	if err != nil {
		return nil, err
	}

	tree, err := value.FromInterface(doc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to convert %s", name).
			WithDetail("path", name)
	}

	vars, ok := tree.AsMap()
	if !ok {
		return nil, errors.Newf(errors.ErrConfigShape,
			"config file %s must contain a mapping at the top level, found %s", name, tree.Kind()).
			WithDetail("path", name).
			WithDetail("kind", tree.Kind().String())
	}
	return vars, nil
}

func decodeJSON(data []byte, name string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, jsonError(err, data, name)
	}

	// a second document is trailing garbage
	var extra any
	if err := dec.Decode(&extra); !stderrors.Is(err, io.EOF) {
		offset := dec.InputOffset()
		line, col := position(data, offset)
		return nil, errors.Newf(errors.ErrConfigParse,
			"invalid JSON in %s at line %d, column %d: unexpected data after top-level value", name, line, col).
			WithDetail("path", name).
			WithDetail("line", line).
			WithDetail("column", col)
	}
	return doc, nil
}

func jsonError(err error, data []byte, name string) error {
	var offset int64 = -1

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		// Offset counts the offending byte
		offset = syntaxErr.Offset - 1
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	case stderrors.Is(err, io.EOF), stderrors.Is(err, io.ErrUnexpectedEOF):
		offset = int64(len(data))
	}

	if offset < 0 && syntaxErr == nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "invalid JSON in %s", name).
			WithDetail("path", name)
	}

	line, col := position(data, offset)
	return errors.Wrapf(err, errors.ErrConfigParse,
		"invalid JSON in %s at line %d, column %d", name, line, col).
		WithDetail("path", name).
		WithDetail("line", line).
		WithDetail("column", col)
}

func decodeYAML(data []byte, name string) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid YAML in %s", name).
			WithDetail("path", name)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc, nil
}

func decodeTOML(data []byte, name string) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var decodeErr *toml.DecodeError
		if stderrors.As(err, &decodeErr) {
			line, col := decodeErr.Position()
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"invalid TOML in %s at line %d, column %d", name, line, col).
				WithDetail("path", name).
				WithDetail("line", line).
				WithDetail("column", col)
		}
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid TOML in %s", name).
			WithDetail("path", name)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// position converts a byte offset into a 1-based line and column
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
