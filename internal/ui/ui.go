// Package ui provides terminal output for relcommit: status cards,
// spinners and progress bars for long-running git and gh work, a
// confirmation prompt and markdown previews. Every component degrades to
// plain text when stdin is not a terminal or colour is disabled.
package ui

import "errors"

// Sentinel errors for UI components.
var (
	// ErrCancelled is returned when the user aborts a prompt.
	ErrCancelled = errors.New("ui: cancelled by user")

	// ErrHeadlessNoDefaults is returned when a prompt runs headless and no
	// default answer was stored for it.
	ErrHeadlessNoDefaults = errors.New("ui: headless mode without defaults")
)

// Progress creates progress indicators.
type Progress interface {
	// Start creates a determinate progress bar over total steps.
	Start(title string, total int) ProgressBar
	// Spinner creates an indeterminate spinner.
	Spinner(title string) Spinner
}

// ProgressBar tracks determinate work.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Spinner tracks indeterminate work.
type Spinner interface {
	SetTitle(title string)
	Stop()
}

// Prompt asks the user questions.
type Prompt interface {
	// Confirm asks a yes/no question. key names the headless default
	// consulted when no terminal is attached.
	Confirm(key, question string, def bool) (bool, error)
}
