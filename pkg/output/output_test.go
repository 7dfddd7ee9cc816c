package output

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/filesystem"
	"github.com/arthur-debert/shinkansen/pkg/input"
	"github.com/arthur-debert/shinkansen/pkg/testutil"
)

func fixtureFS(t *testing.T) filesystem.FS {
	fsys := testutil.NewMemFS(t, map[string]string{"/existing.txt": "x"})
	testutil.MemDir(t, fsys, "/outdir")
	return fsys
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		shape input.Shape
		want  Target
	}{
		{"empty is stdout", "", input.ShapeSingleFile, Stdout()},
		{"dash is stdout", "-", input.ShapeDirectory, Stdout()},
		{"existing dir", "/outdir", input.ShapeSingleFile, Target{TargetDirectory, "/outdir"}},
		{"existing file", "/existing.txt", input.ShapeSingleFile, Target{TargetFile, "/existing.txt"}},
		{"existing file for many inputs", "/existing.txt", input.ShapeMultipleFiles, Target{TargetFile, "/existing.txt"}},
		{"trailing slash", "/new/", input.ShapeSingleFile, Target{TargetDirectory, "/new/"}},
		{"new path single", "/new.txt", input.ShapeSingleFile, Target{TargetFile, "/new.txt"}},
		{"new path stdin", "/new.txt", input.ShapeStdin, Target{TargetFile, "/new.txt"}},
		{"new path multiple", "/new", input.ShapeMultipleFiles, Target{TargetDirectory, "/new"}},
		{"new path directory", "/new", input.ShapeDirectory, Target{TargetDirectory, "/new"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTarget(fixtureFS(t), tt.arg, tt.shape)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTargetUnsafe(t *testing.T) {
	for _, arg := range []string{"/out\x00", "../out", "/outdir/../escape.txt"} {
		_, err := ParseTarget(fixtureFS(t), arg, input.ShapeSingleFile)
		require.Error(t, err, arg)
		assert.Equal(t, errors.ErrUnsafePath, errors.GetErrorCode(err), arg)
	}
}

func singleFile() *input.Set {
	return &input.Set{
		Shape: input.ShapeSingleFile,
		Units: []input.Unit{{RelPath: "page.html", SourcePath: "src/page.html"}},
	}
}

func stdinSet() *input.Set {
	return &input.Set{Shape: input.ShapeStdin, Units: []input.Unit{{Stdin: true}}}
}

func multipleFiles(names ...string) *input.Set {
	set := &input.Set{Shape: input.ShapeMultipleFiles}
	for _, n := range names {
		set.Units = append(set.Units, input.Unit{RelPath: filepath.Base(n), SourcePath: n})
	}
	return set
}

func directorySet() *input.Set {
	return &input.Set{
		Shape: input.ShapeDirectory,
		Root:  "src",
		Units: []input.Unit{
			{RelPath: "a.txt", SourcePath: filepath.Join("src", "a.txt")},
			{RelPath: "sub/b.txt", SourcePath: filepath.Join("src", "sub", "b.txt")},
		},
	}
}

func destinations(plan *Plan) []string {
	out := make([]string, len(plan.Mappings))
	for i, m := range plan.Mappings {
		out[i] = m.Dest.String()
	}
	return out
}

func TestRouteLegalCombinations(t *testing.T) {
	file := Target{Kind: TargetFile, Path: "out.txt"}
	dir := Target{Kind: TargetDirectory, Path: "out"}

	tests := []struct {
		name   string
		target Target
		set    *input.Set
		want   []string
	}{
		{"single to stdout", Stdout(), singleFile(), []string{"stdout"}},
		{"single to file", file, singleFile(), []string{"out.txt"}},
		{"single to dir", dir, singleFile(), []string{filepath.Join("out", "page.html")}},
		{"stdin to stdout", Stdout(), stdinSet(), []string{"stdout"}},
		{"stdin to file", file, stdinSet(), []string{"out.txt"}},
		{"stdin to dir", dir, stdinSet(), []string{filepath.Join("out", "stdin")}},
		{"multiple to dir", dir, multipleFiles("x/a.txt", "y/b.txt"), []string{
			filepath.Join("out", "a.txt"),
			filepath.Join("out", "b.txt"),
		}},
		{"directory to dir", dir, directorySet(), []string{
			filepath.Join("out", "a.txt"),
			filepath.Join("out", "sub", "b.txt"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Route(tt.target, tt.set, "stdin")
			require.NoError(t, err)
			assert.Equal(t, tt.want, destinations(plan))
			assert.Equal(t, tt.set.Shape, plan.Shape)
		})
	}
}

func TestRouteCustomStdinName(t *testing.T) {
	plan, err := Route(Target{Kind: TargetDirectory, Path: "out"}, stdinSet(), "index.html")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("out", "index.html")}, destinations(plan))
}

func TestRouteAmbiguous(t *testing.T) {
	file := Target{Kind: TargetFile, Path: "out.txt"}

	for _, tc := range []struct {
		name   string
		target Target
		set    *input.Set
	}{
		{"multiple to stdout", Stdout(), multipleFiles("a.txt", "b.txt")},
		{"multiple to file", file, multipleFiles("a.txt", "b.txt")},
		{"directory to stdout", Stdout(), directorySet()},
		{"directory to file", file, directorySet()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Route(tc.target, tc.set, "stdin")
			require.Error(t, err)
			assert.Equal(t, errors.ErrAmbiguousOutput, errors.GetErrorCode(err))
		})
	}
}

func TestRouteAmbiguousTouchesNothing(t *testing.T) {
	base := filesystem.NewMemory()
	fsys := testutil.NewErrorFS(base)

	target, err := ParseTarget(fsys, "-", input.ShapeMultipleFiles)
	require.NoError(t, err)
	_, err = Route(target, multipleFiles("a.txt", "b.txt"), "stdin")
	require.Error(t, err)
	assert.Equal(t, 0, fsys.Writes)
}

func TestRouteCollision(t *testing.T) {
	dir := Target{Kind: TargetDirectory, Path: "out"}

	_, err := Route(dir, multipleFiles("x/page.txt", "y/page.txt"), "stdin")
	require.Error(t, err)
	assert.Equal(t, errors.ErrDestinationCollision, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "page.txt")
}
