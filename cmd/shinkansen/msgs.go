package shinkansen

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort = "Render templates with variables from the environment, files and flags"

	// Flag descriptions
	MsgFlagDefine    = "Set a variable (KEY=VALUE, repeatable; a,b or [a,b] for lists)"
	MsgFlagConfig    = "Read variables from a JSON, YAML or TOML file"
	MsgFlagEnv       = "Comma separated environment variables to expose"
	MsgFlagRecursive = "Include subdirectories of a directory input"
	MsgFlagOutput    = "Output file or directory ('-' for stdout)"
	MsgFlagStdinName = "File name used when writing stdin into a directory"
	MsgFlagMaxSize   = "Largest template accepted, in bytes"
	MsgFlagSettings  = "Settings file (default $XDG_CONFIG_HOME/shinkansen/config.toml)"
	MsgFlagFormat    = "Diagnostics format: auto, term, text or json"
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"

	// Status messages
	MsgVersionTemplate = "shinkansen {{.Version}}\n"

	// Error messages
	MsgErrInvalidArgs      = "invalid arguments"
	MsgErrSettingsNotFound = "settings file %s does not exist"
	MsgErrFormat           = "invalid --format value"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/examples.txt
	msgExamplesRaw string
	MsgExamples    = strings.TrimRight(msgExamplesRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
