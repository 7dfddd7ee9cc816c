package shinkansen

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/shinkansen/pkg/config"
	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/input"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/output"
	"github.com/arthur-debert/shinkansen/pkg/pipeline"
	"github.com/arthur-debert/shinkansen/pkg/render"
	"github.com/arthur-debert/shinkansen/pkg/settings"
	"github.com/arthur-debert/shinkansen/pkg/ui"
	"github.com/arthur-debert/shinkansen/pkg/variables"
)

func run(cmd *cobra.Command, args []string, opts *options) error {
	logger := logging.GetLogger("cli")
	start := time.Now()
	defer logging.LogDuration(start, "shinkansen")

	format, err := ui.ParseFormat(opts.format)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrFormat).
			WithDetail("format", opts.format)
	}

	cfg, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}

	src, err := config.SourceFor(opts.configPath)
	if err != nil {
		return err
	}
	fsys := filesystem.NewOS()
	configVars, err := config.LoadSource(fsys, src)
	if err != nil {
		return err
	}

	vars, err := variables.Merge(variables.OS(), opts.envNames, configVars, opts.defines)
	if err != nil {
		return err
	}
	logger.Debug().
		Strs("variables", vars.Names()).
		Str("config", src.Format.String()).
		Msg("Variables resolved")

	set, err := input.Resolve(fsys, args, opts.recursive)
	if err != nil {
		return err
	}
	target, err := output.ParseTarget(fsys, opts.output, set.Shape)
	if err != nil {
		return err
	}
	plan, err := output.Route(target, set, cfg.StdinName)
	if err != nil {
		return err
	}
	logger.Info().
		Str("shape", set.Shape.String()).
		Str("target", target.String()).
		Int("inputs", len(plan.Mappings)).
		Msg("Rendering")

	p := pipeline.New(fsys, render.NewPongo2(), cmd.InOrStdin(), cmd.OutOrStdout(), pipeline.Options{
		MaxTemplateSize: cfg.MaxTemplateSize,
		FileMode:        cfg.FileMode(),
		DirMode:         cfg.DirMode(),
	})
	result, runErr := p.Run(plan, vars.Interface())

	if result != nil && opts.verbosity > 0 && target.Kind != output.TargetStdout {
		reporter := ui.NewReporter(cmd.ErrOrStderr(), format)
		if err := reporter.Summary(len(result.Written), len(plan.Mappings)); err != nil {
			logger.Warn().Err(err).Msg("Failed to write summary")
		}
	}
	return runErr
}

// loadSettings layers explicit flags over the settings files
func loadSettings(cmd *cobra.Command, opts *options) (*settings.Settings, error) {
	if opts.settings != "" {
		info, err := os.Stat(opts.settings)
		if err != nil || !info.Mode().IsRegular() {
			return nil, errors.Newf(errors.ErrSettings, MsgErrSettingsNotFound, opts.settings).
				WithDetail("path", opts.settings)
		}
	}

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("stdin-name") {
		overrides[settings.KeyStdinName] = opts.stdinName
	}
	if cmd.Flags().Changed("max-template-size") {
		overrides[settings.KeyMaxTemplateSize] = opts.maxSize
	}

	return settings.Load(settings.LoadOptions{
		UserFile:  opts.settings,
		Overrides: overrides,
	})
}

// ReportError writes err to the command's error stream in the format chosen
// with --format
func ReportError(cmd *cobra.Command, err error) {
	format := ui.FormatAuto
	if flag := cmd.Flags().Lookup("format"); flag != nil {
		if parsed, perr := ui.ParseFormat(flag.Value.String()); perr == nil {
			format = parsed
		}
	}
	if rerr := ui.NewReporter(cmd.ErrOrStderr(), format).Error(err); rerr != nil {
		logger := logging.GetLogger("cli")
		logger.Error().Err(rerr).Msg("Failed to report error")
	}
}
