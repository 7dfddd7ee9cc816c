package testutil

import (
	"path"
	"sort"
	"testing"

	"github.com/arthur-debert/shinkansen/pkg/filesystem"
)

// NewMemFS returns an in-memory filesystem holding files. Keys are
// slash-separated paths; parent directories are created as needed.
func NewMemFS(t *testing.T, files map[string]string) filesystem.FS {
	t.Helper()

	fsys := filesystem.NewMemory()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := fsys.MkdirAll(path.Dir(name), 0755); err != nil {
			t.Fatalf("Failed to create parent directories for %s: %v", name, err)
		}
		if err := fsys.WriteFile(name, []byte(files[name]), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}
	return fsys
}

// MemDir creates a directory in fsys
func MemDir(t *testing.T, fsys filesystem.FS, dir string) {
	t.Helper()

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
}

// MemReadFile reads a file from fsys, failing the test on error
func MemReadFile(t *testing.T, fsys filesystem.FS, name string) string {
	t.Helper()

	data, err := fsys.ReadFile(name)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", name, err)
	}
	return string(data)
}

// MemExists reports whether name exists in fsys
func MemExists(t *testing.T, fsys filesystem.FS, name string) bool {
	t.Helper()

	_, err := fsys.Stat(name)
	return err == nil
}
