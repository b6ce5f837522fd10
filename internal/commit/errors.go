// Package commit parses conventional-commit messages into structured
// records: header fields, footer notes and breaking-change markers.
package commit

import "errors"

// Sentinel errors for commit parsing.
var (
	// ErrNoMatch indicates the header does not follow the conventional grammar.
	ErrNoMatch = errors.New("commit: header does not match pattern")

	// ErrEmptyMessage indicates the commit message has no header line.
	ErrEmptyMessage = errors.New("commit: empty message")

	// ErrInvalidPattern indicates a header pattern failed to compile or
	// does not expose the fields named by the header correspondence.
	ErrInvalidPattern = errors.New("commit: invalid header pattern")
)
