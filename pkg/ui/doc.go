// Package ui reports diagnostics on the terminal.
//
// Rendered templates go to stdout, so everything in this package writes to
// the stream it is given, normally stderr. Three formats are supported:
// styled terminal output (lipgloss, colors from styles.yaml), plain text,
// and JSON for tools that wrap shinkansen.
package ui
