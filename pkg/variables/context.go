package variables

import (
	"strings"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/escape"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/value"
)

// Origin records which layer set a variable
type Origin int

const (
	OriginEnv Origin = iota
	OriginConfig
	OriginCLI
)

// String returns the layer name
func (o Origin) String() string {
	switch o {
	case OriginEnv:
		return "env"
	case OriginConfig:
		return "config"
	case OriginCLI:
		return "cli"
	default:
		return "unknown"
	}
}

// Context is the resolved set of template variables
type Context struct {
	vars    value.Map
	origins map[string]Origin
}

// NewContext returns an empty context
func NewContext() *Context {
	return &Context{
		vars:    value.Map{},
		origins: map[string]Origin{},
	}
}

func (c *Context) set(name string, v value.Value, origin Origin) {
	c.vars[name] = v
	c.origins[name] = origin
}

// Get returns the value of name
func (c *Context) Get(name string) (value.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Origin reports which layer set name
func (c *Context) Origin(name string) (Origin, bool) {
	o, ok := c.origins[name]
	return o, ok
}

// Len returns the number of top-level variables
func (c *Context) Len() int {
	return len(c.vars)
}

// Names returns the sorted variable names
func (c *Context) Names() []string {
	return c.vars.Keys()
}

// Interface converts the context into plain Go values for the engine
func (c *Context) Interface() map[string]any {
	return c.vars.Interface()
}

// Merge builds a Context from the environment, an optional config tree and
// the -D assignments, in increasing precedence.
func Merge(env Environment, envNames []string, config value.Map, assignments []string) (*Context, error) {
	logger := logging.GetLogger("variables")
	ctx := NewContext()

	for _, name := range envNames {
		raw, ok := env.Lookup(name)
		if !ok {
			logger.Debug().Str("name", name).Msg("Environment variable not set, skipping")
			continue
		}
		v, err := escape.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidVariable,
				"invalid value in environment variable %s", name).
				WithDetail("name", name).
				WithDetail("origin", OriginEnv.String())
		}
		ctx.set(name, v, OriginEnv)
	}

	for _, key := range config.Keys() {
		ctx.set(key, config[key], OriginConfig)
	}

	for _, arg := range assignments {
		key, raw, err := escape.SplitAssignment(arg)
		if err != nil {
			return nil, err
		}
		v, err := escape.Parse(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidVariable,
				"invalid value for variable %s", key).
				WithDetail("name", key).
				WithDetail("argument", arg).
				WithDetail("origin", OriginCLI.String())
		}

		name, nested, err := expandDotted(key, v)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidVariable,
				"invalid variable '%s'", arg).
				WithDetail("argument", arg)
		}
		ctx.set(name, nested, OriginCLI)
	}

	logger.Debug().
		Int("env", len(envNames)).
		Int("config", len(config)).
		Int("cli", len(assignments)).
		Strs("names", ctx.Names()).
		Msg("Variable context assembled")

	return ctx, nil
}

// expandDotted turns a.b.c=v into a -> {b: {c: v}}
func expandDotted(key string, v value.Value) (string, value.Value, error) {
	if !strings.Contains(key, ".") {
		return key, v, nil
	}

	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return "", value.Value{}, errors.Newf(errors.ErrInvalidVariable,
				"empty segment in dotted name '%s'", key).
				WithDetail("name", key)
		}
	}

	nested := v
	for i := len(parts) - 1; i > 0; i-- {
		nested = value.Object(value.Map{parts[i]: nested})
	}
	return parts[0], nested, nil
}
