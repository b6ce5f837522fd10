// Package config loads relcommit configuration: the selected release
// profile layered with an optional .relcommit.yaml or .relcommit.json,
// environment overrides, and validation.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for configuration operations.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownProfile indicates the requested built-in profile does not exist.
	ErrUnknownProfile = errors.New("config: unknown profile")

	// ErrNotInitialized indicates the ConfigManager has not been initialized via Load().
	ErrNotInitialized = errors.New("config: manager not initialized, call Load() first")

	// ErrSectionNotFound indicates the requested section does not exist.
	ErrSectionNotFound = errors.New("config: section not found")

	// ErrInvalidYAML indicates invalid YAML syntax in a configuration file.
	ErrInvalidYAML = errors.New("config: invalid YAML syntax")

	// ErrInvalidJSON indicates invalid JSON in a configuration file.
	ErrInvalidJSON = errors.New("config: invalid JSON syntax")

	// ErrNoBranches indicates a profile without release branches.
	ErrNoBranches = errors.New("config: at least one release branch is required")

	// ErrInvalidReleaseRule indicates a release rule with an unknown release type.
	ErrInvalidReleaseRule = errors.New("config: invalid release rule")

	// ErrInvalidParser indicates an uncompilable header pattern or a bad
	// header correspondence.
	ErrInvalidParser = errors.New("config: invalid parser options")

	// ErrInvalidLogLevel indicates an unsupported log level.
	ErrInvalidLogLevel = errors.New("config: invalid log level, must be one of: debug, info, warn, error")
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel error for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error: field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation: no errors"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is supports errors.Is by checking contained validation errors against the target.
func (e *ValidationErrors) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}
