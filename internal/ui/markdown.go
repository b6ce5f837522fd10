package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the preview width used when the caller passes zero.
const DefaultWrap = 100

// RenderMarkdown formats md for the terminal. Headless or colourless
// themes use glamour's notty style so the output stays plain text.
func RenderMarkdown(theme *Theme, md string, wrap int) (string, error) {
	if wrap <= 0 {
		wrap = DefaultWrap
	}
	style := theme.Mode
	if theme.NoColor {
		style = "notty"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
