// Package tui is the terminal editor shell: a textarea for the source and
// a glamour-rendered preview, laid out according to the editor view mode.
package tui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultPreviewStyle is the glamour style used for terminal previews.
const DefaultPreviewStyle = "dark"

const minWrap = 20

// RenderMarkdown renders markdown for a terminal of the given width.
func RenderMarkdown(markdown string, width int, style string) (string, error) {
	if width < minWrap {
		width = minWrap
	}
	if style == "" {
		style = DefaultPreviewStyle
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
