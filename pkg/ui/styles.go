package ui

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef represents an adaptive color definition in YAML
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef represents a style definition in YAML
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// StylesConfig is the content of styles.yaml
type StylesConfig struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

// Styles maps semantic names to lipgloss styles
type Styles map[string]lipgloss.Style

//go:embed styles.yaml
var embeddedStyles []byte

// style names used by the reporter
var styleNames = []string{"Error", "Code", "Input", "Success", "Muted"}

// DefaultStyles returns the embedded styles bound to r, or unstyled ones
// if they cannot be parsed
func DefaultStyles(r *lipgloss.Renderer) Styles {
	styles, err := LoadStylesFromData(r, embeddedStyles)
	if err != nil {
		return PlainStyles()
	}
	return styles
}

// PlainStyles returns styles that render text unchanged
func PlainStyles() Styles {
	styles := make(Styles, len(styleNames))
	for _, name := range styleNames {
		styles[name] = lipgloss.NewStyle()
	}
	return styles
}

// LoadStylesFromData parses a styles.yaml document. Colors are resolved
// against the profile of r.
func LoadStylesFromData(r *lipgloss.Renderer, data []byte) (Styles, error) {
	var config StylesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse styles data: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(config.Colors))
	for name, def := range config.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styles := PlainStyles()
	for name, def := range config.Styles {
		styles[name] = buildStyle(r.NewStyle(), def, colors)
	}
	return styles, nil
}

// Render applies the named style, leaving text untouched for unknown names
func (s Styles) Render(name, text string) string {
	style, ok := s[name]
	if !ok {
		return text
	}
	return style.Render(text)
}

func buildStyle(style lipgloss.Style, def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Foreground != "" {
		if color, ok := colors[def.Foreground]; ok {
			style = style.Foreground(color)
		}
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}
