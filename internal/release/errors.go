// Package release maps conventional commit types to semantic version
// bumps and computes the next version.
package release

import "errors"

// Sentinel errors for release analysis.
var (
	// ErrNoRelease indicates no commit warrants a new version.
	ErrNoRelease = errors.New("release: no release-worthy commits")

	// ErrInvalidVersion indicates a version string is not valid semver.
	ErrInvalidVersion = errors.New("release: invalid semantic version")

	// ErrUnknownReleaseType indicates a release type name is not recognized.
	ErrUnknownReleaseType = errors.New("release: unknown release type")
)
