// Package render adapts template engines to shinkansen.
//
// An Engine renders one template string with a variable context. Failures
// carry one of four codes: TEMPLATE_SYNTAX, MISSING_VARIABLE,
// TEMPLATE_FILTER or RENDER.
package render

// Engine renders template text with a set of variables
type Engine interface {
	Render(text string, vars map[string]any) (string, error)
}
