package input

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/paths"
)

// StdinArg is the argument that selects standard input
const StdinArg = "-"

// Resolve classifies args and enumerates the units to render
func Resolve(fsys filesystem.FS, args []string, recursive bool) (*Set, error) {
	logger := logging.GetLogger("input")

	set, err := resolve(fsys, args, recursive, logger)
	if err != nil {
		return nil, err
	}

	if recursive && set.Shape != ShapeDirectory {
		return nil, errors.Newf(errors.ErrInvalidInput,
			"--recursive requires a single directory input, got %s", set.Shape).
			WithDetail("shape", set.Shape.String())
	}

	logger.Debug().
		Str("shape", set.Shape.String()).
		Int("units", len(set.Units)).
		Bool("recursive", recursive).
		Msg("Inputs resolved")
	return set, nil
}

func resolve(fsys filesystem.FS, args []string, recursive bool, logger zerolog.Logger) (*Set, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == StdinArg) {
		return &Set{Shape: ShapeStdin, Units: []Unit{{Stdin: true}}}, nil
	}

	for _, arg := range args {
		if arg == StdinArg {
			return nil, errors.New(errors.ErrMixedInput,
				"cannot mix stdin '-' with other inputs")
		}
		if err := paths.ValidatePath(arg); err != nil {
			return nil, err
		}
	}

	if len(args) == 1 {
		info, err := stat(fsys, args[0])
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return resolveDir(fsys, args[0], recursive, logger)
		}
		return &Set{
			Shape: ShapeSingleFile,
			Units: []Unit{{RelPath: filepath.Base(args[0]), SourcePath: args[0]}},
		}, nil
	}

	units := make([]Unit, 0, len(args))
	for _, arg := range args {
		info, err := stat(fsys, arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, errors.Newf(errors.ErrMixedInput,
				"cannot mix directory '%s' with other inputs", arg).
				WithDetail("path", arg)
		}
		units = append(units, Unit{RelPath: filepath.Base(arg), SourcePath: arg})
	}
	return &Set{Shape: ShapeMultipleFiles, Units: units}, nil
}

func resolveDir(fsys filesystem.FS, root string, recursive bool, logger zerolog.Logger) (*Set, error) {
	var units []Unit
	if err := walk(fsys, root, "", recursive, &units, logger); err != nil {
		return nil, err
	}

	if len(units) == 0 {
		return nil, errors.Newf(errors.ErrNoInputs,
			"no input files found in directory '%s'", root).
			WithDetail("path", root).
			WithDetail("recursive", recursive)
	}
	return &Set{Shape: ShapeDirectory, Root: root, Units: units}, nil
}

// walk appends the files below dir depth-first, sorted per level
func walk(fsys filesystem.FS, dir, rel string, recursive bool, units *[]Unit, logger zerolog.Logger) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess,
			"failed to read directory '%s'", dir).
			WithDetail("path", dir)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		relPath := path.Join(rel, name)
		if err := paths.ValidatePath(full); err != nil {
			return err
		}

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := fsys.Stat(full)
			if err != nil {
				logger.Warn().Str("path", full).Err(err).Msg("Skipping broken symlink")
				continue
			}
			if info.IsDir() {
				logger.Debug().Str("path", full).Msg("Skipping symlinked directory")
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if recursive {
				if err := walk(fsys, full, relPath, recursive, units, logger); err != nil {
					return err
				}
			}
		case mode.IsRegular():
			*units = append(*units, Unit{RelPath: relPath, SourcePath: full})
		default:
			logger.Debug().Str("path", full).Str("mode", mode.String()).Msg("Skipping special file")
		}
	}
	return nil
}

func stat(fsys filesystem.FS, name string) (fs.FileInfo, error) {
	info, err := fsys.Stat(name)
	if err == nil {
		return info, nil
	}
	if os.IsNotExist(err) {
		return nil, errors.Newf(errors.ErrInputNotFound,
			"input '%s' does not exist", name).
			WithDetail("path", name)
	}
	return nil, errors.Wrapf(err, errors.ErrFileAccess,
		"cannot access input '%s'", name).
		WithDetail("path", name)
}
