package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Brand colours (dark variants).
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorText      = "#E5E7EB"
	ColorMuted     = "#9CA3AF"
	ColorBorder    = "#4B5563"
)

// Palette holds the colours a Theme renders with.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
	Border    string
}

// ThemeConfig selects a theme.
type ThemeConfig struct {
	// Mode is "dark" or "light".
	Mode    string
	NoColor bool
}

// Theme carries colours and styles shared by all components.
type Theme struct {
	Mode    string
	NoColor bool
	Colors  Palette
}

// NewTheme builds a Theme for cfg. Unknown modes fall back to dark.
func NewTheme(cfg ThemeConfig) *Theme {
	t := &Theme{Mode: "dark", NoColor: cfg.NoColor}
	t.Colors = Palette{
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Success:   ColorSuccess,
		Warning:   ColorWarning,
		Error:     ColorError,
		Muted:     ColorMuted,
		Border:    ColorBorder,
	}
	if cfg.Mode == "light" {
		t.Mode = "light"
		t.Colors = Palette{
			Primary:   "#C45A3C",
			Secondary: "#5B21B6",
			Success:   "#059669",
			Warning:   "#D97706",
			Error:     "#DC2626",
			Muted:     "#6B7280",
			Border:    "#D1D5DB",
		}
	}
	return t
}

func (t *Theme) style(color string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (t *Theme) cardStyle() lipgloss.Style {
	s := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	if !t.NoColor {
		s = s.BorderForeground(lipgloss.Color(t.Colors.Border))
	}
	return s
}

// SuccessCard renders a bordered card headed by a check mark.
func (t *Theme) SuccessCard(title string, details ...string) string {
	return t.card(t.style(t.Colors.Success).Render("✓")+" "+title, details)
}

// WarningCard renders a bordered card headed by a warning sign.
func (t *Theme) WarningCard(title string, details ...string) string {
	return t.card(t.style(t.Colors.Warning).Render("!")+" "+title, details)
}

// ErrorCard renders a bordered card headed by a cross.
func (t *Theme) ErrorCard(title string, details ...string) string {
	return t.card(t.style(t.Colors.Error).Render("✗")+" "+title, details)
}

// InfoCard renders a bordered card with a bold title and free content.
func (t *Theme) InfoCard(title, content string) string {
	return t.cardStyle().Render(t.style(t.Colors.Primary).Bold(true).Render(title) + "\n\n" + content)
}

// KeyValue renders an aligned "key  value" line with a muted key.
func (t *Theme) KeyValue(key, value string, width int) string {
	pad := max(width-len(key), 0)
	return t.style(t.Colors.Muted).Render(key) + strings.Repeat(" ", pad+2) + value
}

// Muted renders s in the muted colour.
func (t *Theme) Muted(s string) string {
	return t.style(t.Colors.Muted).Render(s)
}

func (t *Theme) card(titleLine string, details []string) string {
	var body strings.Builder
	body.WriteString(titleLine)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}
