package release

import (
	"fmt"
	"maps"
	"slices"

	"github.com/djh00t/relcommit/internal/commit"
)

// Type is a semantic version bump severity. Values are ordered so that a
// larger Type wins when several commits are analyzed together.
type Type int

const (
	// None means the commit does not trigger a release.
	None Type = iota
	// Patch bumps the patch component.
	Patch
	// Minor bumps the minor component.
	Minor
	// Major bumps the major component.
	Major
)

// String returns the lowercase name used in configuration files.
func (t Type) String() string {
	switch t {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "none"
	}
}

// ParseType converts a configuration name into a Type. "false" and ""
// map to None, matching the release-rule convention for disabled types.
func ParseType(name string) (Type, error) {
	switch name {
	case "patch":
		return Patch, nil
	case "minor":
		return Minor, nil
	case "major":
		return Major, nil
	case "none", "false", "":
		return None, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownReleaseType, name)
	}
}

// Rule maps one commit type to a release type.
type Rule struct {
	Type    string `yaml:"type" json:"type"`
	Release string `yaml:"release" json:"release"`
}

// DefaultRules is the release-rule table applied when a profile does not
// override it. Every known commit type releases at least a patch.
var DefaultRules = []Rule{
	{Type: commit.TypeBuild, Release: "patch"},
	{Type: commit.TypeChore, Release: "patch"},
	{Type: commit.TypeCI, Release: "patch"},
	{Type: commit.TypeDocs, Release: "patch"},
	{Type: commit.TypeFeat, Release: "minor"},
	{Type: commit.TypeFix, Release: "patch"},
	{Type: commit.TypePerf, Release: "patch"},
	{Type: commit.TypeRefactor, Release: "patch"},
	{Type: commit.TypeRevert, Release: "patch"},
	{Type: commit.TypeStyle, Release: "patch"},
	{Type: commit.TypeTest, Release: "patch"},
	{Type: commit.TypeOther, Release: "patch"},
}

// Rules is a compiled, immutable commit-type lookup table.
type Rules struct {
	table map[string]Type
}

// NewRules compiles a rule list. A later rule for the same type replaces
// an earlier one.
func NewRules(rules []Rule) (*Rules, error) {
	table := make(map[string]Type, len(rules))
	for _, r := range rules {
		t, err := ParseType(r.Release)
		if err != nil {
			return nil, fmt.Errorf("rule for %q: %w", r.Type, err)
		}
		table[r.Type] = t
	}
	return &Rules{table: table}, nil
}

// Default returns the compiled DefaultRules table.
func Default() *Rules {
	r, err := NewRules(DefaultRules)
	if err != nil {
		panic(err)
	}
	return r
}

// For returns the release type for a commit type. The boolean is false
// for types without a rule.
func (r *Rules) For(commitType string) (Type, bool) {
	t, ok := r.table[commitType]
	return t, ok
}

// Types returns the commit types that have a rule, sorted.
func (r *Rules) Types() []string {
	return slices.Sorted(maps.Keys(r.table))
}

// Classify returns the release type a single commit triggers. Unparsed
// commits and types without a rule trigger nothing; breaking commits
// always trigger Major.
func (r *Rules) Classify(c commit.Commit) Type {
	if !c.Parsed {
		return None
	}
	if c.IsBreaking() {
		return Major
	}
	t, _ := r.For(c.Header.Type)
	return t
}

// Analyze returns the highest release type triggered by commits.
func (r *Rules) Analyze(commits []commit.Commit) Type {
	highest := None
	for _, c := range commits {
		if t := r.Classify(c); t > highest {
			highest = t
			if highest == Major {
				break
			}
		}
	}
	return highest
}
