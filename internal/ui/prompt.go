package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// promptImpl implements Prompt with huh forms.
type promptImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewPrompt creates a Prompt backed by the given theme and headless manager.
func NewPrompt(theme *Theme, hm *HeadlessManager) Prompt {
	return &promptImpl{theme: theme, headless: hm}
}

// Confirm asks question interactively with def preselected. Headless runs
// return the answer stored for key and fail with ErrHeadlessNoDefaults
// when there is none.
func (p *promptImpl) Confirm(key, question string, def bool) (bool, error) {
	if p.headless.IsHeadless() {
		if v, ok := p.headless.Answer(key); ok {
			return v, nil
		}
		return false, fmt.Errorf("%w: %s", ErrHeadlessNoDefaults, key)
	}
	return p.confirmInteractive(question, def)
}

func (p *promptImpl) confirmInteractive(question string, def bool) (bool, error) {
	value := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&value),
	)).WithTheme(p.huhTheme()).WithAccessible(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	return value, nil
}

// huhTheme maps the palette onto a huh theme.
func (p *promptImpl) huhTheme() *huh.Theme {
	t := huh.ThemeBase()
	if p.theme.NoColor {
		return t
	}
	primary := lipgloss.Color(p.theme.Colors.Primary)
	muted := lipgloss.Color(p.theme.Colors.Muted)

	t.Focused.Base = t.Focused.Base.BorderForeground(lipgloss.Color(p.theme.Colors.Border))
	t.Focused.Title = t.Focused.Title.Foreground(primary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(muted)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(primary)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(muted)
	t.Blurred = t.Focused
	return t
}
