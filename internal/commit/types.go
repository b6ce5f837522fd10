package commit

import (
	"time"
)

// Well-known conventional commit types.
const (
	TypeBuild    = "build"
	TypeChore    = "chore"
	TypeCI       = "ci"
	TypeDocs     = "docs"
	TypeFeat     = "feat"
	TypeFix      = "fix"
	TypePerf     = "perf"
	TypeRefactor = "refactor"
	TypeRevert   = "revert"
	TypeStyle    = "style"
	TypeTest     = "test"
	TypeOther    = "other"
)

// KnownTypes returns the commit types recognized by the default release
// rules, in the order they appear in the rule table.
func KnownTypes() []string {
	return []string{
		TypeBuild, TypeChore, TypeCI, TypeDocs, TypeFeat, TypeFix,
		TypePerf, TypeRefactor, TypeRevert, TypeStyle, TypeTest, TypeOther,
	}
}

// Header holds the structured fields extracted from a commit header line.
type Header struct {
	Type    string
	Scope   string
	Subject string
	// Breaking is set when the header carries the "!" marker before ":".
	Breaking bool
	// Emoji is the optional leading emoji, empty when absent.
	Emoji string
	Raw   string
}

// Note is a footer note such as "BREAKING CHANGE: drop v1 API".
type Note struct {
	Title string
	Text  string
}

// Commit is a single commit record as consumed by release analysis and
// changelog rendering.
type Commit struct {
	Hash   string
	Header Header
	// Parsed is false when the header did not match the grammar. Unparsed
	// commits carry only Header.Raw and are ignored by release rules and
	// labels.
	Parsed        bool
	Body          string
	Notes         []Note
	Author        string
	CommitterDate time.Time
}

// IsBreaking reports whether the commit signals a major version change,
// either through the header "!" marker or a breaking-change note.
func (c Commit) IsBreaking() bool {
	if !c.Parsed {
		return false
	}
	return c.Header.Breaking || len(c.Notes) > 0
}

// ShortHash returns the first seven characters of the commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}
