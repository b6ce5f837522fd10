// Package git reads release history from a Git repository and runs the
// few git commands relcommit needs.
package git

import "errors"

// Sentinel errors for git operations.
var (
	// ErrNotRepository indicates the path is not inside a Git repository.
	ErrNotRepository = errors.New("git: not a git repository")

	// ErrDetachedHEAD indicates HEAD does not point to a branch.
	ErrDetachedHEAD = errors.New("git: HEAD is detached")

	// ErrNoCommits indicates the repository has no commits yet.
	ErrNoCommits = errors.New("git: repository has no commits")

	// ErrTagNotFound indicates a tag could not be resolved.
	ErrTagNotFound = errors.New("git: tag not found")

	// ErrSystemGitNotFound indicates the git binary is not on PATH.
	ErrSystemGitNotFound = errors.New("git: system git not found")
)
