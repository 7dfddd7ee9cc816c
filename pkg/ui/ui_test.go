package ui_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/pipeline"
	"github.com/arthur-debert/shinkansen/pkg/ui"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   ui.Format
		expected string
	}{
		{ui.FormatAuto, "auto"},
		{ui.FormatTerminal, "term"},
		{ui.FormatText, "text"},
		{ui.FormatJSON, "json"},
		{ui.Format(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.format.String())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected ui.Format
		wantErr  bool
	}{
		{"", ui.FormatAuto, false},
		{"auto", ui.FormatAuto, false},
		{"TERM", ui.FormatTerminal, false},
		{"terminal", ui.FormatTerminal, false},
		{"plain", ui.FormatText, false},
		{"json", ui.FormatJSON, false},
		{"xml", ui.FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ui.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestReporterAutoOnBufferIsText(t *testing.T) {
	r := ui.NewReporter(&bytes.Buffer{}, ui.FormatAuto)
	assert.Equal(t, ui.FormatText, r.Format())
}

func TestReporterTextError(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatText)

	inner := errors.New(errors.ErrMissingVariable, "undefined variable 'name' at line 1")
	err := errors.Wrap(inner, errors.ErrMissingVariable, "failed to render stdin")

	require.NoError(t, r.Error(err))
	assert.Equal(t,
		"error: [MISSING_VARIABLE] failed to render stdin: undefined variable 'name' at line 1\n",
		buf.String())
}

func batchError() error {
	return &pipeline.BatchError{
		Total: 3,
		Failures: []*pipeline.UnitError{{
			Input: "b.txt",
			Err: errors.Wrap(
				errors.New(errors.ErrMissingVariable, "undefined variable 'x' at line 2"),
				errors.ErrMissingVariable, "failed to render b.txt"),
		}},
	}
}

func TestReporterTextBatch(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatText)

	require.NoError(t, r.Error(batchError()))
	out := buf.String()
	assert.Contains(t, out, "error: [BATCH] 1 of 3 inputs failed\n")
	assert.Contains(t, out, "b.txt [MISSING_VARIABLE] undefined variable 'x' at line 2")
}

func TestReporterJSONBatch(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatJSON)

	require.NoError(t, r.Error(batchError()))

	var decoded map[string]ui.ErrorReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	report := decoded["error"]
	assert.Equal(t, "BATCH", report.Code)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, ui.FailureReport{
		Input:   "b.txt",
		Code:    "MISSING_VARIABLE",
		Message: "undefined variable 'x' at line 2",
	}, report.Failures[0])
}

func TestReporterJSONDetails(t *testing.T) {
	var buf bytes.Buffer
	r := ui.NewReporter(&buf, ui.FormatJSON)

	err := errors.New(errors.ErrInputNotFound, "input 'x' does not exist").WithDetail("path", "x")
	require.NoError(t, r.Error(err))

	var decoded map[string]ui.ErrorReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "INPUT_NOT_FOUND", decoded["error"].Code)
	assert.Equal(t, "x", decoded["error"].Details["path"])
}

func TestReporterSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.NewReporter(&buf, ui.FormatText).Summary(2, 3))
	assert.Equal(t, "rendered 2 of 3 inputs\n", buf.String())
}

func TestLoadStylesFromData(t *testing.T) {
	data := []byte(`
colors:
  red: {light: "#ff0000", dark: "#ff8888"}
styles:
  Error: {bold: true, foreground: red}
`)
	styles, err := ui.LoadStylesFromData(lipgloss.NewRenderer(&bytes.Buffer{}), data)
	require.NoError(t, err)
	assert.True(t, styles["Error"].GetBold())
	assert.Contains(t, styles, "Muted")
	assert.Equal(t, "plain", styles.Render("Unknown", "plain"))
}

func TestLoadStylesFromDataInvalid(t *testing.T) {
	_, err := ui.LoadStylesFromData(lipgloss.NewRenderer(&bytes.Buffer{}), []byte("colors: ["))
	assert.Error(t, err)
}
