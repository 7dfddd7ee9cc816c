package pipeline

import (
	"fmt"
	"strings"
)

// UnitError is the failure of one unit
type UnitError struct {
	// Input is the unit's relative path, or stdin
	Input string
	Err   error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %v", e.Input, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// BatchError reports every failed unit of a run
type BatchError struct {
	Failures []*UnitError
	Total    int
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d inputs failed:", len(e.Failures), e.Total)
	for _, f := range e.Failures {
		sb.WriteString("\n  ")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is and errors.As
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Inputs returns the failed inputs in order
func (e *BatchError) Inputs() []string {
	inputs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		inputs[i] = f.Input
	}
	return inputs
}
