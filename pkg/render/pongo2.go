package render

import (
	stderrors "errors"
	"regexp"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/logging"
)

// Option configures a Pongo2 engine
type Option func(*Pongo2)

// WithStrictUndefined toggles the undefined variable check. It is on by
// default.
func WithStrictUndefined(strict bool) Option {
	return func(p *Pongo2) {
		p.strict = strict
	}
}

// WithOptions sets the pongo2 whitespace options
func WithOptions(trimBlocks, lstripBlocks bool) Option {
	return func(p *Pongo2) {
		p.set.Options.TrimBlocks = trimBlocks
		p.set.Options.LStripBlocks = lstripBlocks
	}
}

// Pongo2 renders Django/Jinja style templates with pongo2
type Pongo2 struct {
	set    *pongo2.TemplateSet
	strict bool
}

var _ Engine = (*Pongo2)(nil)

var autoescapeOnce sync.Once

// identifiers pongo2 accepts as context keys
var reContextKey = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// NewPongo2 creates an engine. Output is never HTML escaped.
func NewPongo2(options ...Option) *Pongo2 {
	autoescapeOnce.Do(func() {
		pongo2.SetAutoescape(false)
	})

	p := &Pongo2{
		set:    pongo2.NewSet("shinkansen", pongo2.MustNewLocalFileSystemLoader("")),
		strict: true,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Render implements Engine
func (p *Pongo2) Render(text string, vars map[string]any) (string, error) {
	tpl, err := p.set.FromString(text)
	if err != nil {
		return "", classify(err, errors.ErrTemplateSyntax, "template syntax error")
	}

	if p.strict {
		if missing, line := firstUndefined(text, vars); missing != "" {
			return "", errors.Newf(errors.ErrMissingVariable,
				"undefined variable '%s' at line %d", missing, line).
				WithDetail("variable", missing).
				WithDetail("line", line)
		}
	}

	out, err := tpl.Execute(context(vars))
	if err != nil {
		var perr *pongo2.Error
		if stderrors.As(err, &perr) && strings.HasPrefix(perr.Sender, "filter") {
			return "", classify(err, errors.ErrTemplateFilter, "template filter failed")
		}
		return "", classify(err, errors.ErrRender, "template rendering failed")
	}
	return out, nil
}

// context drops keys no template can reference; pongo2 refuses them
func context(vars map[string]any) pongo2.Context {
	logger := logging.GetLogger("render")
	ctx := make(pongo2.Context, len(vars))
	for k, v := range vars {
		if !reContextKey.MatchString(k) {
			logger.Debug().
				Str("variable", k).
				Msg("Variable name is not a template identifier, skipping")
			continue
		}
		ctx[k] = v
	}
	return ctx
}

// classify turns a pongo2 error into a coded error that keeps the
// engine's message and position
func classify(err error, code errors.ErrorCode, message string) error {
	var perr *pongo2.Error
	if !stderrors.As(err, &perr) {
		return errors.Wrap(err, code, message)
	}

	coded := errors.Wrap(err, code, message)
	if perr.Line > 0 {
		coded.WithDetail("line", perr.Line).WithDetail("column", perr.Column)
	}
	if perr.Sender != "" {
		coded.WithDetail("sender", perr.Sender)
	}
	return coded
}
