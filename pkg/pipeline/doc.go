// Package pipeline renders routed units one after another.
//
// Each unit is read, checked for size and encoding, rendered and written.
// A failing unit does not stop the run: failures are collected and
// returned together as a *BatchError once every unit has been tried. Runs
// with a single unit (one file or stdin) return that unit's error as is.
package pipeline
