// Package markdown renders help text written in markdown for the terminal.
package markdown

import (
	"github.com/charmbracelet/glamour"
)

// Renderer uses glamour for rich markdown rendering
type Renderer struct {
	Style string // Style name: "dark", "light", "notty", "auto", or path to custom style
	Width int    // Word wrap width (0 = glamour default)
}

// NewRenderer creates a markdown renderer with style auto-detection
func NewRenderer() *Renderer {
	return &Renderer{Style: "auto"}
}

// Render converts markdown to terminal output. On any renderer error the
// markdown source is returned unchanged.
func (r *Renderer) Render(content string) string {
	var options []glamour.TermRendererOption

	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStandardStyle(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}

	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
