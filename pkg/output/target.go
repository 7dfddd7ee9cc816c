package output

import (
	"os"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/input"
	"github.com/arthur-debert/shinkansen/pkg/paths"
)

// StdoutArg selects standard output explicitly
const StdoutArg = "-"

// TargetKind is the kind of output target
type TargetKind int

const (
	TargetStdout TargetKind = iota
	TargetFile
	TargetDirectory
)

// String returns the kind name used in messages
func (k TargetKind) String() string {
	switch k {
	case TargetStdout:
		return "stdout"
	case TargetFile:
		return "file"
	case TargetDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Target is where rendered output goes
type Target struct {
	Kind TargetKind
	Path string
}

// Stdout returns the standard output target
func Stdout() Target {
	return Target{Kind: TargetStdout}
}

// String describes the target
func (t Target) String() string {
	if t.Kind == TargetStdout {
		return "stdout"
	}
	return t.Kind.String() + " " + t.Path
}

// ParseTarget interprets the -o argument for the given input shape
func ParseTarget(fsys filesystem.FS, arg string, shape input.Shape) (Target, error) {
	if arg == "" || arg == StdoutArg {
		return Stdout(), nil
	}
	if err := paths.ValidateOutputPath(arg); err != nil {
		return Target{}, err
	}

	info, err := fsys.Stat(arg)
	switch {
	case err == nil:
		if info.IsDir() {
			return Target{Kind: TargetDirectory, Path: arg}, nil
		}
		if paths.HasTrailingSeparator(arg) {
			return Target{}, errors.Newf(errors.ErrInvalidInput,
				"output '%s' names a directory but is a file", arg).
				WithDetail("path", arg)
		}
		return Target{Kind: TargetFile, Path: arg}, nil
	case !os.IsNotExist(err):
		return Target{}, errors.Wrapf(err, errors.ErrFileAccess,
			"cannot access output '%s'", arg).
			WithDetail("path", arg)
	}

	if paths.HasTrailingSeparator(arg) {
		return Target{Kind: TargetDirectory, Path: arg}, nil
	}
	if shape == input.ShapeMultipleFiles || shape == input.ShapeDirectory {
		return Target{Kind: TargetDirectory, Path: arg}, nil
	}
	return Target{Kind: TargetFile, Path: arg}, nil
}
