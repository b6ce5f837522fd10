package ui

import (
	"maps"
	"os"

	"github.com/mattn/go-isatty"
)

// HeadlessManager decides whether components may draw interactively and
// holds the answers prompts fall back to when they may not.
type HeadlessManager struct {
	forced  *bool
	answers map[string]bool
	getenv  func(string) string
	isTTY   func(fd uintptr) bool
}

// NewHeadlessManager creates a HeadlessManager that detects headless mode
// from the terminal state of stdin and stdout and the CI variable.
func NewHeadlessManager() *HeadlessManager {
	return &HeadlessManager{getenv: os.Getenv, isTTY: isTerminal}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// IsHeadless reports whether the UI must run without a terminal. A forced
// value wins; otherwise CI runs and redirected stdin or stdout are headless.
func (h *HeadlessManager) IsHeadless() bool {
	if h.forced != nil {
		return *h.forced
	}
	if h.getenv("CI") != "" {
		return true
	}
	return !h.isTTY(os.Stdin.Fd()) || !h.isTTY(os.Stdout.Fd())
}

// ForceHeadless overrides detection.
func (h *HeadlessManager) ForceHeadless(force bool) {
	h.forced = &force
}

// ClearForce reverts to automatic detection.
func (h *HeadlessManager) ClearForce() {
	h.forced = nil
}

// SetAnswers stores the answers used by headless prompts, keyed by
// prompt key (e.g. "create_pr").
func (h *HeadlessManager) SetAnswers(answers map[string]bool) {
	if len(answers) == 0 {
		h.answers = nil
		return
	}
	h.answers = make(map[string]bool, len(answers))
	maps.Copy(h.answers, answers)
}

// Answer returns the stored answer for key.
func (h *HeadlessManager) Answer(key string) (bool, bool) {
	v, ok := h.answers[key]
	return v, ok
}
