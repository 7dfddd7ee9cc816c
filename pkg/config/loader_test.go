package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/value"
)

func writeConfig(t *testing.T, fsys filesystem.FS, path, content string) {
	t.Helper()
	require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
}

func TestSourceFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"", FormatNone},
		{"vars.json", FormatJSON},
		{"vars.JSON", FormatJSON},
		{"vars.yaml", FormatYAML},
		{"vars.yml", FormatYAML},
		{"conf/vars.Yml", FormatYAML},
		{"vars.toml", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			src, err := SourceFor(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Format)
			assert.Equal(t, tt.path, src.Path)
		})
	}
}

func TestSourceForUnsupported(t *testing.T) {
	for _, path := range []string{"vars.ini", "vars", "vars.json.bak"} {
		_, err := SourceFor(path)
		require.Error(t, err, path)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedFormat), path)
	}
}

func TestLoadFormats(t *testing.T) {
	want := value.Map{
		"environment": value.String("production"),
		"port":        value.Int(8080),
		"ratio":       value.Float(0.25),
		"debug":       value.Bool(false),
		"hosts":       value.Strings("a", "b"),
		"db":          value.Object(value.Map{"name": value.String("app")}),
	}

	files := map[string]string{
		"vars.json": `{
  "environment": "production",
  "port": 8080,
  "ratio": 0.25,
  "debug": false,
  "hosts": ["a", "b"],
  "db": {"name": "app"}
}`,
		"vars.yaml": `environment: production
port: 8080
ratio: 0.25
debug: false
hosts: [a, b]
db:
  name: app
`,
		"vars.toml": `environment = "production"
port = 8080
ratio = 0.25
debug = false
hosts = ["a", "b"]

[db]
name = "app"
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			fsys := filesystem.NewMemory()
			writeConfig(t, fsys, name, content)

			got, err := Load(fsys, name)
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load(%s) mismatch (-want +got):\n%s", name, diff)
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	got, err := Load(filesystem.NewMemory(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filesystem.NewMemory(), "missing.json")
	require.Error(t, err)
	assert.Equal(t, errors.ErrConfigLoad, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "missing.json")
}

func TestParseEmptyYAML(t *testing.T) {
	for _, doc := range []string{"", "\n", "# only a comment\n", "---\n"} {
		got, err := Parse(FormatYAML, []byte(doc), "empty.yaml")
		require.NoError(t, err, "%q", doc)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	}
}

func TestParseEmptyTOML(t *testing.T) {
	got, err := Parse(FormatTOML, nil, "empty.toml")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseShapeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json list", FormatJSON, `[1, 2]`},
		{"json scalar", FormatJSON, `"text"`},
		{"json null", FormatJSON, `null`},
		{"yaml list", FormatYAML, "- a\n- b\n"},
		{"yaml scalar", FormatYAML, "hello\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.format, []byte(tt.data), "vars")
			require.Error(t, err)
			assert.Equal(t, errors.ErrConfigShape, errors.GetErrorCode(err))
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
		line   int
	}{
		{"json missing brace", FormatJSON, "{\n  \"a\": 1,\n", 3},
		{"json bad token", FormatJSON, "{\n  \"a\": tru\n}", 2},
		{"json trailing data", FormatJSON, "{\"a\": 1}\n{\"b\": 2}", 2},
		{"toml bad value", FormatTOML, "a = 1\nb = \n", 2},
		{"yaml unclosed flow", FormatYAML, "a: [1, 2\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.format, []byte(tt.data), "vars")
			require.Error(t, err)
			assert.Equal(t, errors.ErrConfigParse, errors.GetErrorCode(err))
			if tt.line > 0 {
				assert.Equal(t, tt.line, errors.GetErrorDetails(err)["line"])
			}
		})
	}
}

func TestParseKeepsNativeTypes(t *testing.T) {
	got, err := Parse(FormatJSON, []byte(`{"big": 9007199254740993, "s": "1"}`), "vars.json")
	require.NoError(t, err)

	big, ok := got["big"].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(9007199254740993), big)

	s, ok := got["s"].AsString()
	require.True(t, ok)
	assert.Equal(t, "1", s)
}

func TestParseNonFiniteFloats(t *testing.T) {
	tests := []struct {
		format Format
		data   string
	}{
		{FormatYAML, "pos: .inf\nneg: -.Inf\nnan: .nan\nok: 1.5\n"},
		{FormatTOML, "pos = inf\nneg = -inf\nnan = nan\nok = 1.5\n"},
	}

	want := value.Map{
		"pos": value.Null(),
		"neg": value.Null(),
		"nan": value.Null(),
		"ok":  value.Float(1.5),
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := Parse(tt.format, []byte(tt.data), "vars")
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseYAMLNonStringKeys(t *testing.T) {
	got, err := Parse(FormatYAML, []byte("1: one\ntrue: yes\n"), "vars.yaml")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"1", "true"}, got.Keys())
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\n")
	line, col := position(data, 0)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)

	line, col = position(data, 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, _ = position(data, 100)
	assert.Equal(t, 3, line)
}
