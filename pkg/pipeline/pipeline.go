package pipeline

import (
	"io"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/input"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/output"
	"github.com/arthur-debert/shinkansen/pkg/render"
)

// Options controls limits and permissions of a run
type Options struct {
	MaxTemplateSize int64
	FileMode        fs.FileMode
	DirMode         fs.FileMode
}

// Pipeline renders units with an engine and writes the results
type Pipeline struct {
	fs     filesystem.FS
	engine render.Engine
	stdin  io.Reader
	stdout io.Writer
	opts   Options
}

// Result summarizes a run
type Result struct {
	Written []output.Destination
	Failed  int
}

// New creates a pipeline reading stdin units from stdin and writing stdout
// destinations to stdout
func New(fsys filesystem.FS, engine render.Engine, stdin io.Reader, stdout io.Writer, opts Options) *Pipeline {
	return &Pipeline{
		fs:     fsys,
		engine: engine,
		stdin:  stdin,
		stdout: stdout,
		opts:   opts,
	}
}

// Run processes every mapping of plan in order
func (p *Pipeline) Run(plan *output.Plan, vars map[string]any) (*Result, error) {
	logger := logging.GetLogger("pipeline")
	done := logging.LogOperationStart(logger, "render")
	defer done()

	result := &Result{}
	batch := &BatchError{Total: len(plan.Mappings)}

	for _, m := range plan.Mappings {
		label := m.Unit.Label()
		unitLogger := logger.With().Str("input", label).Str("destination", m.Dest.String()).Logger()

		if err := p.process(m, vars, unitLogger); err != nil {
			unitLogger.Debug().Err(err).Msg("Unit failed")
			batch.Failures = append(batch.Failures, &UnitError{Input: label, Err: err})
			continue
		}
		result.Written = append(result.Written, m.Dest)
		unitLogger.Info().Msg("Rendered")
	}
	result.Failed = len(batch.Failures)

	if len(batch.Failures) == 0 {
		return result, nil
	}
	if plan.Shape == input.ShapeSingleFile || plan.Shape == input.ShapeStdin {
		return result, batch.Failures[0].Err
	}
	return result, batch
}

func (p *Pipeline) process(m output.Mapping, vars map[string]any, logger zerolog.Logger) error {
	label := m.Unit.Label()

	text, err := p.read(m.Unit)
	if err != nil {
		return err
	}

	rendered, err := p.engine.Render(text, vars)
	if err != nil {
		return errors.Wrapf(err, errors.GetErrorCode(err), "failed to render %s", label).
			WithDetail("input", label)
	}
	logger.Trace().Int("bytes", len(rendered)).Msg("Template rendered")

	return p.write(m.Dest, rendered, label)
}

func (p *Pipeline) read(unit input.Unit) (string, error) {
	label := unit.Label()

	rc, err := unit.Open(p.fs, p.stdin)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", label).
			WithDetail("input", label)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, p.opts.MaxTemplateSize+1))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", label).
			WithDetail("input", label)
	}

	if int64(len(data)) > p.opts.MaxTemplateSize {
		return "", errors.Newf(errors.ErrTemplateTooLarge,
			"%s is larger than the maximum template size of %d bytes", label, p.opts.MaxTemplateSize).
			WithDetail("input", label).
			WithDetail("limit", p.opts.MaxTemplateSize)
	}

	if !utf8.Valid(data) {
		offset := invalidOffset(data)
		return "", errors.Newf(errors.ErrEncoding,
			"%s is not valid UTF-8 (invalid byte at offset %d)", label, offset).
			WithDetail("input", label).
			WithDetail("offset", offset)
	}

	return string(data), nil
}

func (p *Pipeline) write(dest output.Destination, text, label string) error {
	if dest.Stdout {
		if _, err := io.WriteString(p.stdout, text); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s to stdout", label).
				WithDetail("input", label)
		}
		return nil
	}

	dir := filepath.Dir(dest.Path)
	if err := p.fs.MkdirAll(dir, p.opts.DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory %s for %s", dir, label).
			WithDetail("input", label).
			WithDetail("path", dir)
	}
	if err := p.fs.WriteFile(dest.Path, []byte(text), p.opts.FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s for %s", dest.Path, label).
			WithDetail("input", label).
			WithDetail("path", dest.Path)
	}
	return nil
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence
func invalidOffset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
