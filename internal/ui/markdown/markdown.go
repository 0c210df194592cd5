// Package markdown renders markdown for terminal overlays.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// flatDocument drops glamour's document margins so the text lines up with
// the surrounding border.
const flatDocument = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// Renderer wraps a glamour renderer with a fixed wrap width.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// New creates a renderer. style is a glamour standard style name ("dark",
// "light", "notty", ...) or "auto" to follow the terminal background.
func New(width int, style string) (*Renderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithStylesFromJSONBytes([]byte(flatDocument)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width is the wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render turns markdown into styled terminal text.
func (r *Renderer) Render(md string) (string, error) {
	return r.renderer.Render(md)
}
