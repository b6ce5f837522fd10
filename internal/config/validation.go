package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/djh00t/relcommit/internal/release"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for correctness and returns
// *ValidationErrors listing every problem found.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateProfile(&cfg.Release)...)
	errs = append(errs, validateSystem(&cfg.System)...)
	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateProfile checks branches, release rules and parser options.
func validateProfile(p *Profile) []ValidationError {
	var errs []ValidationError

	if len(p.Branches) == 0 {
		errs = append(errs, ValidationError{
			Field:   "release.branches",
			Message: "at least one branch is required (example: branches: [{name: main}])",
			Wrapped: ErrNoBranches,
		})
	}
	for i, b := range p.Branches {
		if strings.TrimSpace(b.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("release.branches[%d].name", i),
				Message: "branch name is empty",
				Wrapped: ErrInvalidConfig,
			})
		}
	}

	for i, r := range p.ReleaseRules {
		if r.Type == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("release.release_rules[%d].type", i),
				Message: "commit type is empty",
				Wrapped: ErrInvalidReleaseRule,
			})
		}
		if _, err := release.ParseType(r.Release); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("release.release_rules[%d].release", i),
				Message: "must be one of: major, minor, patch, none",
				Value:   r.Release,
				Wrapped: ErrInvalidReleaseRule,
			})
		}
	}

	if _, err := p.CommitParser(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "release.parser",
			Message: err.Error(),
			Wrapped: ErrInvalidParser,
		})
	}

	return errs
}

func validateSystem(s *SystemConfig) []ValidationError {
	if s.LogLevel == "" || slices.Contains(validLogLevels, strings.ToLower(s.LogLevel)) {
		return nil
	}
	return []ValidationError{{
		Field:   "system.log_level",
		Message: "must be one of: " + strings.Join(validLogLevels, ", "),
		Value:   s.LogLevel,
		Wrapped: ErrInvalidLogLevel,
	}}
}

func validateLint(l *LintConfig) []ValidationError {
	if l.MaxLength >= 0 {
		return nil
	}
	return []ValidationError{{
		Field:   "lint.max_length",
		Message: "must be zero (unlimited) or positive",
		Value:   l.MaxLength,
		Wrapped: ErrInvalidConfig,
	}}
}

func validateSecrets(s *SecretsConfig) []ValidationError {
	var errs []ValidationError
	for i, pattern := range s.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("secrets.exclude[%d]", i),
				Message: "invalid regular expression",
				Value:   pattern,
				Wrapped: ErrInvalidConfig,
			})
		}
	}
	return errs
}
