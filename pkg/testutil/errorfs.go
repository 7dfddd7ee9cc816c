package testutil

import (
	"io/fs"

	"github.com/arthur-debert/shinkansen/pkg/filesystem"
)

// ErrorFS wraps a filesystem and fails operations on chosen paths
type ErrorFS struct {
	filesystem.FS

	ReadErrors  map[string]error
	WriteErrors map[string]error
	MkdirErrors map[string]error

	Writes int
}

// NewErrorFS wraps base with no injected errors
func NewErrorFS(base filesystem.FS) *ErrorFS {
	return &ErrorFS{
		FS:          base,
		ReadErrors:  map[string]error{},
		WriteErrors: map[string]error{},
		MkdirErrors: map[string]error{},
	}
}

func (e *ErrorFS) ReadFile(name string) ([]byte, error) {
	if err, ok := e.ReadErrors[name]; ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return e.FS.ReadFile(name)
}

func (e *ErrorFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err, ok := e.WriteErrors[name]; ok {
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	e.Writes++
	return e.FS.WriteFile(name, data, perm)
}

func (e *ErrorFS) MkdirAll(path string, perm fs.FileMode) error {
	if err, ok := e.MkdirErrors[path]; ok {
		return &fs.PathError{Op: "mkdir", Path: path, Err: err}
	}
	return e.FS.MkdirAll(path, perm)
}
