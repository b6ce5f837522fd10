// Package github wraps the GitHub CLI (gh) for the pull request
// operations relcommit performs.
package github

import "errors"

// Sentinel errors for gh operations.
var (
	// ErrGHNotFound indicates the gh binary is not on PATH.
	ErrGHNotFound = errors.New("github: gh CLI not found")

	// ErrGHNotAuthenticated indicates gh is not logged in.
	ErrGHNotAuthenticated = errors.New("github: gh CLI not authenticated")

	// ErrPRAlreadyExists indicates a pull request for the head branch exists.
	ErrPRAlreadyExists = errors.New("github: pull request already exists")

	// ErrPRNotFound indicates no pull request matched.
	ErrPRNotFound = errors.New("github: pull request not found")
)
