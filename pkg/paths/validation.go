package paths

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/arthur-debert/shinkansen/pkg/errors"
)

// MaxPathLength is the longest path accepted
const MaxPathLength = 4096

// ValidatePath rejects paths that are empty, too long, or contain NUL or
// other control characters.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrUnsafePath, "path cannot be empty")
	}

	// Check for null bytes
	if strings.Contains(path, "\x00") {
		return errors.Newf(errors.ErrUnsafePath, "path %q contains null bytes", path).
			WithDetail("path", path)
	}

	// Check path length (common filesystem limit)
	if len(path) > MaxPathLength {
		return errors.Newf(errors.ErrUnsafePath,
			"path exceeds maximum length of %d bytes", MaxPathLength).
			WithDetail("length", len(path))
	}

	// Check for control characters
	for _, r := range path {
		if unicode.IsControl(r) {
			return errors.Newf(errors.ErrUnsafePath,
				"path %q contains control characters", path).
				WithDetail("path", path)
		}
	}

	return nil
}

// ValidateOutputPath applies ValidatePath and also rejects ".." components
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	if HasParentComponent(path) {
		return errors.Newf(errors.ErrUnsafePath,
			"path %q contains parent directory references", path).
			WithDetail("path", path)
	}
	return nil
}

// HasParentComponent reports whether any element of path is ".."
func HasParentComponent(path string) bool {
	for _, part := range strings.FieldsFunc(path, isSeparator) {
		if part == ".." {
			return true
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return r == '/' || r == os.PathSeparator
}

// HasTrailingSeparator reports whether path ends in a path separator
func HasTrailingSeparator(path string) bool {
	if path == "" {
		return false
	}
	last := path[len(path)-1]
	return last == '/' || last == os.PathSeparator
}

// FromSlash joins a slash-separated relative path onto root
func FromSlash(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
