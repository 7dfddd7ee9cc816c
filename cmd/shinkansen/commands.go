package shinkansen

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/shinkansen/internal/version"
	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/variables"
)

// options collects the parsed command line
type options struct {
	defines    []string
	configPath string
	envNames   []string
	recursive  bool
	output     string
	stdinName  string
	maxSize    int64
	settings   string
	format     string
	verbosity  int
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &options{}
	var envFlags []string

	rootCmd := &cobra.Command{
		Use:               "shinkansen [flags] [INPUT...]",
		Short:             MsgRootShort,
		Long:              MsgRootLong,
		Example:           MsgExamples,
		Version:           version.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			logging.LogCommand(cmd.Name(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.envNames = nil
			for _, raw := range envFlags {
				opts.envNames = append(opts.envNames, variables.ParseEnvNames(raw)...)
			}
			return run(cmd, args, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&opts.defines, "define", "D", nil, MsgFlagDefine)
	flags.StringVarP(&opts.configPath, "config", "c", "", MsgFlagConfig)
	flags.StringArrayVar(&envFlags, "env", nil, MsgFlagEnv)
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, MsgFlagRecursive)
	flags.StringVarP(&opts.output, "output", "o", "", MsgFlagOutput)
	flags.StringVar(&opts.stdinName, "stdin-name", "", MsgFlagStdinName)
	flags.Int64Var(&opts.maxSize, "max-template-size", 0, MsgFlagMaxSize)
	flags.StringVar(&opts.settings, "settings", "", MsgFlagSettings)
	flags.StringVar(&opts.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrInvalidArgs)
	})
	rootCmd.SetVersionTemplate(MsgVersionTemplate)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	return rootCmd
}
