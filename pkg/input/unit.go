package input

import (
	"bytes"
	"io"

	"github.com/arthur-debert/shinkansen/pkg/filesystem"
)

// StdinLabel names the stdin unit in messages
const StdinLabel = "stdin"

// Shape classifies the set of inputs
type Shape int

const (
	ShapeStdin Shape = iota
	ShapeSingleFile
	ShapeMultipleFiles
	ShapeDirectory
)

// String returns the shape name used in messages
func (s Shape) String() string {
	switch s {
	case ShapeStdin:
		return "stdin"
	case ShapeSingleFile:
		return "single file"
	case ShapeMultipleFiles:
		return "multiple files"
	case ShapeDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Unit is a single template to render
type Unit struct {
	// RelPath is the base name for file arguments, the slash-separated
	// path below the root for directory inputs and empty for stdin
	RelPath string
	// SourcePath is the path the bytes are read from
	SourcePath string
	Stdin      bool
}

// Label names the unit in messages
func (u Unit) Label() string {
	if u.Stdin {
		return StdinLabel
	}
	return u.RelPath
}

// Open returns the unit's bytes. Nothing is read before Open is called.
func (u Unit) Open(fsys filesystem.FS, stdin io.Reader) (io.ReadCloser, error) {
	if u.Stdin {
		return io.NopCloser(stdin), nil
	}
	data, err := fsys.ReadFile(u.SourcePath)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Set is the result of resolving the input arguments
type Set struct {
	Shape Shape
	// Root is the directory argument for ShapeDirectory
	Root  string
	Units []Unit
}
