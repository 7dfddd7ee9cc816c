package ui

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/pipeline"
)

// Reporter writes errors and run summaries
type Reporter struct {
	out    io.Writer
	format Format
	styles Styles
}

// NewReporter creates a reporter. FormatAuto is resolved against out.
func NewReporter(out io.Writer, format Format) *Reporter {
	if format == FormatAuto {
		format = FormatText
		if f, ok := out.(*os.File); ok {
			format = DetectFormat(f)
		}
	}

	styles := PlainStyles()
	if format == FormatTerminal {
		styles = DefaultStyles(lipgloss.NewRenderer(out))
	}
	return &Reporter{out: out, format: format, styles: styles}
}

// Format returns the resolved format
func (r *Reporter) Format() Format {
	return r.format
}

// FailureReport describes one failed input
type FailureReport struct {
	Input   string `json:"input"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorReport is the JSON form of an error
type ErrorReport struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Failures []FailureReport        `json:"failures,omitempty"`
}

// NewErrorReport flattens err for display
func NewErrorReport(err error) ErrorReport {
	var batch *pipeline.BatchError
	if stderrors.As(err, &batch) {
		report := ErrorReport{
			Code:    "BATCH",
			Message: fmt.Sprintf("%d of %d inputs failed", len(batch.Failures), batch.Total),
		}
		for _, f := range batch.Failures {
			report.Failures = append(report.Failures, FailureReport{
				Input:   f.Input,
				Code:    string(errors.GetErrorCode(f.Err)),
				Message: cause(f.Err),
			})
		}
		return report
	}

	details := errors.GetErrorDetails(err)
	if len(details) == 0 {
		details = nil
	}
	return ErrorReport{
		Code:    string(errors.GetErrorCode(err)),
		Message: chain(err),
		Details: details,
	}
}

// Error reports err
func (r *Reporter) Error(err error) error {
	if err == nil {
		return nil
	}
	report := NewErrorReport(err)

	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]ErrorReport{"error": report})
	}

	if _, err := fmt.Fprintf(r.out, "%s %s %s\n",
		r.styles.Render("Error", "error:"),
		r.styles.Render("Code", "["+report.Code+"]"),
		report.Message); err != nil {
		return err
	}
	for _, f := range report.Failures {
		line := fmt.Sprintf("%s %s %s",
			r.styles.Render("Input", f.Input),
			r.styles.Render("Code", "["+f.Code+"]"),
			f.Message)
		if _, err := fmt.Fprintln(r.out, "  "+line); err != nil {
			return err
		}
	}
	return nil
}

// Summary reports how many inputs were rendered
func (r *Reporter) Summary(written, total int) error {
	if r.format == FormatJSON {
		return json.NewEncoder(r.out).Encode(map[string]int{
			"rendered": written,
			"total":    total,
		})
	}

	style := "Success"
	if written < total {
		style = "Muted"
	}
	_, err := fmt.Fprintln(r.out, r.styles.Render(style,
		fmt.Sprintf("rendered %d of %d inputs", written, total)))
	return err
}

// cause returns the message of the innermost coded error together with
// whatever it wraps, dropping the outer layers that only add context
func cause(err error) string {
	var innermost *errors.ShinkansenError
	for e := err; e != nil; {
		var coded *errors.ShinkansenError
		if !stderrors.As(e, &coded) {
			break
		}
		innermost = coded
		e = coded.Wrapped
	}

	if innermost == nil {
		return err.Error()
	}
	if innermost.Wrapped != nil {
		return innermost.Message + ": " + innermost.Wrapped.Error()
	}
	return innermost.Message
}

// chain joins the messages of every coded error in err's chain, ending
// with the first uncoded cause
func chain(err error) string {
	msg := ""
	for e := err; e != nil; {
		var coded *errors.ShinkansenError
		if !stderrors.As(e, &coded) {
			return join(msg, e.Error())
		}
		msg = join(msg, coded.Message)
		e = coded.Wrapped
	}
	return msg
}

func join(prefix, msg string) string {
	if prefix == "" {
		return msg
	}
	return prefix + ": " + msg
}
