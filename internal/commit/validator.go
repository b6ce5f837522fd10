package commit

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validate checks a commit message against a convention.
// If conv is nil the message is considered valid.
func Validate(message string, conv *Convention) ValidationResult {
	if conv == nil {
		return ValidationResult{Valid: true, Message: message}
	}

	result := ValidationResult{Message: message}

	raw := strings.SplitN(strings.ReplaceAll(message, "\r\n", "\n"), "\n", 2)[0]
	header := strings.TrimSpace(raw)

	if header == "" {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationRequired,
			Field:    "header",
			Expected: "non-empty commit message",
			Actual:   "",
		})
		return result
	}

	if n := utf8.RuneCountInString(header); conv.MaxLength > 0 && n > conv.MaxLength {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationMaxLength,
			Field:    "header",
			Expected: fmt.Sprintf("max %d characters", conv.MaxLength),
			Actual:   fmt.Sprintf("%d characters", n),
		})
	}

	// Trailing whitespace stays so "feat: " parses with an empty subject.
	h, err := conv.parser().ParseHeader(strings.TrimLeftFunc(raw, unicode.IsSpace))
	if err != nil {
		result.Violations = append(result.Violations, Violation{
			Type:       ViolationPattern,
			Field:      "header",
			Expected:   conv.pattern().String(),
			Actual:     header,
			Suggestion: suggestFix(header),
		})
	} else {
		validateSemantics(h, conv, &result)
	}

	result.Valid = len(result.Violations) == 0
	return result
}

// validateSemantics checks type and scope against allowed lists.
func validateSemantics(h Header, conv *Convention, result *ValidationResult) {
	if h.Type == "" {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationRequired,
			Field:    "type",
			Expected: "a commit type before the colon",
			Actual:   h.Raw,
		})
	} else if len(conv.Types) > 0 && !slices.Contains(conv.Types, h.Type) {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationInvalidType,
			Field:    "type",
			Expected: strings.Join(conv.Types, ", "),
			Actual:   h.Type,
		})
	}

	// Scopes are only checked when the convention restricts them.
	if len(conv.Scopes) > 0 && h.Scope != "" && !slices.Contains(conv.Scopes, h.Scope) {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationInvalidScope,
			Field:    "scope",
			Expected: strings.Join(conv.Scopes, ", "),
			Actual:   h.Scope,
		})
	}

	if strings.TrimSpace(h.Subject) == "" {
		result.Violations = append(result.Violations, Violation{
			Type:     ViolationRequired,
			Field:    "subject",
			Expected: "non-empty subject",
			Actual:   "",
		})
	}
}

// suggestFix guesses a conventional header for free-form text.
func suggestFix(header string) string {
	lower := strings.ToLower(header)

	suggestedType := TypeChore
	switch {
	case strings.Contains(lower, "fix") || strings.Contains(lower, "bug"):
		suggestedType = TypeFix
	case strings.Contains(lower, "add") || strings.Contains(lower, "feat") || strings.Contains(lower, "new"):
		suggestedType = TypeFeat
	case strings.Contains(lower, "doc") || strings.Contains(lower, "readme"):
		suggestedType = TypeDocs
	case strings.Contains(lower, "test"):
		suggestedType = TypeTest
	case strings.Contains(lower, "refactor") || strings.Contains(lower, "clean"):
		suggestedType = TypeRefactor
	case strings.Contains(lower, "perf") || strings.Contains(lower, "faster"):
		suggestedType = TypePerf
	}

	desc := strings.TrimSpace(header)
	if desc != "" {
		r, size := utf8.DecodeRuneInString(desc)
		desc = strings.ToLower(string(r)) + desc[size:]
	}

	return suggestedType + ": " + desc
}
