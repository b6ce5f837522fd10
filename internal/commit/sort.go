package commit

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSortFields is the changelog ordering: subject, then scope.
var DefaultSortFields = []string{"subject", "scope"}

// Sort orders commits by (subject, scope) ascending.
func Sort(commits []Commit) {
	SortBy(commits, DefaultSortFields)
}

// SortBy orders commits by the named header fields, ascending and stable.
// Recognized fields are "type", "scope", "subject" and "hash"; unknown
// names are ignored. Strings compare in NFC form so composed and
// decomposed accents sort together.
func SortBy(commits []Commit, fields []string) {
	slices.SortStableFunc(commits, func(a, b Commit) int {
		for _, f := range fields {
			if c := strings.Compare(sortKey(a, f), sortKey(b, f)); c != 0 {
				return c
			}
		}
		return 0
	})
}

func sortKey(c Commit, field string) string {
	var v string
	switch field {
	case "type":
		v = c.Header.Type
	case "scope":
		v = c.Header.Scope
	case "subject":
		v = c.Header.Subject
	case "hash":
		v = c.Hash
	default:
		return ""
	}
	return norm.NFC.String(v)
}
