// Package changelog turns parsed commits into release notes and keeps
// CHANGELOG.md up to date.
package changelog

import (
	"time"

	"github.com/djh00t/relcommit/internal/commit"
)

// Changelog section labels.
const (
	LabelFeatures      = "Features"
	LabelBugFixes      = "Bug Fixes"
	LabelPerformance   = "Performance Improvements"
	LabelReverts       = "Reverts"
	LabelDocumentation = "Documentation"
	LabelOther         = "Other Changes"
)

// labels maps commit types with a dedicated section to their heading.
var labels = map[string]string{
	commit.TypeFeat:   LabelFeatures,
	commit.TypeFix:    LabelBugFixes,
	commit.TypePerf:   LabelPerformance,
	commit.TypeRevert: LabelReverts,
	commit.TypeDocs:   LabelDocumentation,
}

// LabelOrder is the order sections appear in rendered notes.
var LabelOrder = []string{
	LabelFeatures,
	LabelBugFixes,
	LabelPerformance,
	LabelReverts,
	LabelDocumentation,
	LabelOther,
}

// Label returns the changelog heading for a commit type. Types without a
// dedicated section are grouped under "Other Changes".
func Label(commitType string) string {
	if l, ok := labels[commitType]; ok {
		return l
	}
	return LabelOther
}

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Entry is a commit prepared for rendering.
type Entry struct {
	Label         string
	Type          string
	Scope         string
	Subject       string
	Hash          string
	ShortHash     string
	CommitURL     string
	CommitterDate string
	Breaking      bool
}

// Transform converts a commit into a changelog entry. The boolean is
// false for unparsed commits, which never appear in release notes.
func Transform(c commit.Commit) (Entry, bool) {
	if !c.Parsed {
		return Entry{}, false
	}
	return Entry{
		Label:         Label(c.Header.Type),
		Type:          c.Header.Type,
		Scope:         c.Header.Scope,
		Subject:       c.Header.Subject,
		Hash:          c.Hash,
		ShortHash:     c.ShortHash(),
		CommitterDate: formatISO(c.CommitterDate),
		Breaking:      c.IsBreaking(),
	}, true
}

func formatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}
