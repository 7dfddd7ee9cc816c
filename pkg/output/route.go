package output

import (
	"path/filepath"

	"github.com/arthur-debert/shinkansen/pkg/errors"
	"github.com/arthur-debert/shinkansen/pkg/input"
	"github.com/arthur-debert/shinkansen/pkg/logging"
	"github.com/arthur-debert/shinkansen/pkg/paths"
)

// Destination is where one unit is written
type Destination struct {
	Stdout bool
	Path   string
}

// String describes the destination
func (d Destination) String() string {
	if d.Stdout {
		return "stdout"
	}
	return d.Path
}

// Mapping pairs a unit with its destination
type Mapping struct {
	Unit input.Unit
	Dest Destination
}

// Plan is the routed output of a run
type Plan struct {
	Shape    input.Shape
	Target   Target
	Mappings []Mapping
}

// Route checks that set can be written to target and assigns every unit a
// destination. stdinName is the file name used for stdin in a directory.
func Route(target Target, set *input.Set, stdinName string) (*Plan, error) {
	logger := logging.GetLogger("output")

	if target.Kind != TargetDirectory &&
		(set.Shape == input.ShapeMultipleFiles || set.Shape == input.ShapeDirectory) {
		return nil, errors.Newf(errors.ErrAmbiguousOutput,
			"cannot write %d %s inputs to %s: use -o with a directory", len(set.Units), set.Shape, target).
			WithDetail("shape", set.Shape.String()).
			WithDetail("target", target.Kind.String())
	}

	plan := &Plan{
		Shape:    set.Shape,
		Target:   target,
		Mappings: make([]Mapping, 0, len(set.Units)),
	}
	seen := make(map[string]string, len(set.Units))

	for _, unit := range set.Units {
		dest := destination(target, unit, stdinName)
		if !dest.Stdout {
			key := filepath.Clean(dest.Path)
			if other, ok := seen[key]; ok {
				return nil, errors.Newf(errors.ErrDestinationCollision,
					"inputs '%s' and '%s' would both be written to %s", other, unit.Label(), dest.Path).
					WithDetail("destination", dest.Path).
					WithDetail("inputs", []string{other, unit.Label()})
			}
			seen[key] = unit.Label()
		}
		plan.Mappings = append(plan.Mappings, Mapping{Unit: unit, Dest: dest})
	}

	logger.Debug().
		Str("target", target.String()).
		Int("destinations", len(plan.Mappings)).
		Msg("Outputs routed")
	return plan, nil
}

func destination(target Target, unit input.Unit, stdinName string) Destination {
	switch target.Kind {
	case TargetFile:
		return Destination{Path: target.Path}
	case TargetDirectory:
		if unit.Stdin {
			return Destination{Path: filepath.Join(target.Path, stdinName)}
		}
		return Destination{Path: paths.FromSlash(target.Path, unit.RelPath)}
	default:
		return Destination{Stdout: true}
	}
}
