package commit

import "regexp"

// ViolationType classifies a lint violation.
type ViolationType string

const (
	// ViolationRequired indicates a required part of the message is missing.
	ViolationRequired ViolationType = "required"

	// ViolationMaxLength indicates the header exceeds the allowed length.
	ViolationMaxLength ViolationType = "max_length"

	// ViolationPattern indicates the header does not match the grammar.
	ViolationPattern ViolationType = "pattern"

	// ViolationInvalidType indicates the commit type is not allowed.
	ViolationInvalidType ViolationType = "invalid_type"

	// ViolationInvalidScope indicates the scope is not allowed.
	ViolationInvalidScope ViolationType = "invalid_scope"
)

// Convention describes the rules a commit message is linted against.
type Convention struct {
	Name      string
	Parser    *Parser
	Types     []string
	Scopes    []string
	MaxLength int
}

// Violation is a single rule failure.
type Violation struct {
	Type       ViolationType
	Field      string
	Expected   string
	Actual     string
	Suggestion string
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid      bool
	Message    string
	Violations []Violation
}

// DefaultConvention returns the conventional-commits convention with the
// known types and a 100 character header limit.
func DefaultConvention() *Convention {
	return &Convention{
		Name:      "conventional-commits",
		Parser:    defaultParser,
		Types:     KnownTypes(),
		MaxLength: 100,
	}
}

// pattern returns the header regexp used by the convention.
func (c *Convention) pattern() *regexp.Regexp {
	if c.Parser == nil {
		return defaultParser.pattern
	}
	return c.Parser.pattern
}

func (c *Convention) parser() *Parser {
	if c.Parser == nil {
		return defaultParser
	}
	return c.Parser
}
