package shinkansen

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/testutil"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err != nil {
		ReportError(cmd, err)
	}
	return stdout.String(), stderr.String(), err
}

func TestStdinToStdout(t *testing.T) {
	out, _, err := execute(t, "Hello, {{ name }}!", "-D", "name=World")
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", out)
}

func TestListAssignment(t *testing.T) {
	tmpl := "{% for h in hosts %}{{ h }};{% endfor %}"
	out, _, err := execute(t, tmpl, "-D", "hosts=a,b,c")
	require.NoError(t, err)
	assert.Equal(t, "a;b;c;", out)

	out, _, err = execute(t, "{{ hosts }}", "-D", `hosts=a\,b`)
	require.NoError(t, err)
	assert.Equal(t, "a,b", out)
}

func TestConfigAndOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := testutil.CreateFile(t, dir, "vars.yaml", "env: production\nport: 8080\n")
	tmpl := `{% if env == "production" %}prod:{{ port }}{% else %}{{ env }}{% endif %}`

	out, _, err := execute(t, tmpl, "-c", cfg)
	require.NoError(t, err)
	assert.Equal(t, "prod:8080", out)

	out, _, err = execute(t, tmpl, "-c", cfg, "-D", "env=staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", out)
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("SHK_GREETING", "hi")
	t.Setenv("SHK_TARGET", "there")

	out, _, err := execute(t, "{{ SHK_GREETING }} {{ SHK_TARGET }}",
		"--env", "SHK_GREETING", "--env", "SHK_TARGET")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)

	out, _, err = execute(t, "{{ SHK_GREETING }}",
		"--env", "SHK_GREETING", "-D", "SHK_GREETING=bye")
	require.NoError(t, err)
	assert.Equal(t, "bye", out)
}

func TestDirectoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	testutil.CreateFile(t, src, "a.conf", "a={{ v }}\n")
	testutil.CreateFile(t, src, "sub/b.conf", "b={{ v }}\n")
	dest := filepath.Join(dir, "out")

	_, _, err := execute(t, "", "-r", "-D", "v=1", "-o", dest, src)
	require.NoError(t, err)

	testutil.AssertFileContent(t, filepath.Join(dest, "a.conf"), "a=1\n")
	testutil.AssertFileContent(t, filepath.Join(dest, "sub", "b.conf"), "b=1\n")
}

func TestSingleFileToFile(t *testing.T) {
	dir := t.TempDir()
	in := testutil.CreateFile(t, dir, "motd.tpl", "welcome {{ user }}")
	dest := filepath.Join(dir, "motd")

	out, _, err := execute(t, "", "-D", "user=ana", "-o", dest, in)
	require.NoError(t, err)
	assert.Empty(t, out)
	testutil.AssertFileContent(t, dest, "welcome ana")
}

func TestAmbiguousOutput(t *testing.T) {
	dir := t.TempDir()
	a := testutil.CreateFile(t, dir, "a.tpl", "a")
	b := testutil.CreateFile(t, dir, "b.tpl", "b")
	existing := testutil.CreateFile(t, dir, "result.txt", "")

	_, stderr, err := execute(t, "", "-o", existing, a, b)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousOutput))
	assert.Contains(t, stderr, "[AMBIGUOUS_OUTPUT]")
}

func TestMissingVariable(t *testing.T) {
	_, _, err := execute(t, "{{ missing }}")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrMissingVariable))
}

func TestBatchFailureReport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	testutil.CreateFile(t, src, "good.txt", "ok")
	testutil.CreateFile(t, src, "bad.txt", "{{ nope }}")
	dest := filepath.Join(dir, "out")

	_, stderr, err := execute(t, "", "--format", "json", "-o", dest, src)
	require.Error(t, err)

	var report map[string]struct {
		Code     string `json:"code"`
		Failures []struct {
			Input string `json:"input"`
			Code  string `json:"code"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal([]byte(stderr), &report))
	assert.Equal(t, "BATCH", report["error"].Code)
	require.Len(t, report["error"].Failures, 1)
	assert.Equal(t, "MISSING_VARIABLE", report["error"].Failures[0].Code)

	testutil.AssertFileContent(t, filepath.Join(dest, "good.txt"), "ok")
	testutil.AssertNoFile(t, filepath.Join(dest, "bad.txt"))
}

func TestInvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"bad assignment", []string{"-D", "novalue"}, errors.ErrInvalidVariable},
		{"bad escape", []string{"-D", `k=a\q`}, errors.ErrEscape},
		{"unknown config format", []string{"-c", "vars.ini"}, errors.ErrUnsupportedFormat},
		{"missing settings file", []string{"--settings", "/nonexistent/shinkansen.toml"}, errors.ErrSettings},
		{"bad format", []string{"--format", "xml"}, errors.ErrInvalidInput},
		{"unknown flag", []string{"--nope"}, errors.ErrInvalidInput},
		{"stdin mixed with files", []string{"-", "a.tpl"}, errors.ErrMixedInput},
		{"missing input", []string{"/nonexistent/a.tpl"}, errors.ErrInputNotFound},
		{"bad stdin name", []string{"--stdin-name", "a/b"}, errors.ErrSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "x", tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, tt.code), "got %v", err)
		})
	}
}

func TestStdinIntoDirectory(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out") + string(os.PathSeparator)

	_, _, err := execute(t, "v={{ v }}", "-D", "v=2", "--stdin-name", "rendered.txt", "-o", dest)
	require.NoError(t, err)
	testutil.AssertFileContent(t, filepath.Join(dir, "out", "rendered.txt"), "v=2")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "shinkansen dev\n", out)
}
