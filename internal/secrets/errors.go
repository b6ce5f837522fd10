// Package secrets guards commits against unencrypted secrets. Files that
// match a secret check are encrypted in place with SOPS.
package secrets

import "errors"

// Sentinel errors for secret scanning.
var (
	// ErrUnknownCheck indicates a hook id with no registered check.
	ErrUnknownCheck = errors.New("secrets: unknown check")

	// ErrSOPSNotFound indicates the sops binary is not installed.
	ErrSOPSNotFound = errors.New("secrets: sops is not installed")

	// ErrKeysMissing indicates no age key pair was found for encryption.
	ErrKeysMissing = errors.New("secrets: no age or gpg keys found")

	// ErrInvalidExclude indicates an exclude pattern that does not compile.
	ErrInvalidExclude = errors.New("secrets: invalid exclude pattern")
)
