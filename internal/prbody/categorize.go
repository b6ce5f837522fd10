// Package prbody builds pull request descriptions from the commits a
// branch adds on top of its destination.
package prbody

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/djh00t/relcommit/internal/commit"
)

// TypeOrder is the fixed order of PR body sections.
var TypeOrder = []string{
	commit.TypeBuild,
	commit.TypeChore,
	commit.TypeCI,
	commit.TypeDocs,
	commit.TypeFeat,
	commit.TypeFix,
	commit.TypeOther,
	commit.TypePerf,
	commit.TypeRefactor,
	commit.TypeRevert,
	commit.TypeStyle,
	commit.TypeTest,
}

// emojiPattern covers the pictograph, dingbat and enclosed-alphanumeric
// blocks commit tools prefix subjects with.
var emojiPattern = regexp.MustCompile(`[` +
	`\x{1F300}-\x{1F5FF}` +
	`\x{1F600}-\x{1F64F}` +
	`\x{1F680}-\x{1F6FF}` +
	`\x{1F700}-\x{1F77F}` +
	`\x{1F780}-\x{1F7FF}` +
	`\x{1F800}-\x{1F8FF}` +
	`\x{1F900}-\x{1F9FF}` +
	`\x{1FA00}-\x{1FA6F}` +
	`\x{1FA70}-\x{1FAFF}` +
	`\x{2702}-\x{27B0}` +
	`\x{24C2}` +
	`\x{1F170}-\x{1F251}` +
	`\x{FE0F}` +
	`]+`)

// typePatterns match "type:" or "type(scope):" after optional symbols.
var typePatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(TypeOrder))
	for _, t := range TypeOrder {
		out[t] = regexp.MustCompile(`^[\x{1F300}-\x{1F5FF}\x{2000}-\x{3300}]*` + regexp.QuoteMeta(t) + `(?:\(\S+\))?:`)
	}
	return out
}()

// Category is one PR body section.
type Category struct {
	Type     string
	Messages []string
}

// Categories holds commit subjects grouped by type, in TypeOrder.
type Categories []Category

// ByType returns the categories keyed by type, for templates that index
// sections directly.
func (c Categories) ByType() map[string][]string {
	out := make(map[string][]string, len(c))
	for _, cat := range c {
		out[cat.Type] = cat.Messages
	}
	return out
}

// NonEmpty returns the categories that have at least one message.
func (c Categories) NonEmpty() Categories {
	return slices.DeleteFunc(slices.Clone(c), func(cat Category) bool {
		return len(cat.Messages) == 0
	})
}

// Categorize buckets commit subjects by conventional type. Emojis and a
// leading one-character marker such as "- " are stripped first; subjects
// that match no type land in "other". Blank subjects are dropped.
func Categorize(subjects []string) Categories {
	buckets := make(map[string][]string, len(TypeOrder))
	for _, s := range subjects {
		msg := Clean(s)
		if msg == "" {
			continue
		}
		typ, text := classify(msg)
		buckets[typ] = append(buckets[typ], text)
	}

	out := make(Categories, len(TypeOrder))
	for i, t := range TypeOrder {
		out[i] = Category{Type: t, Messages: buckets[t]}
	}
	return out
}

// Clean removes emojis and surrounding whitespace from a subject, and a
// leading single character followed by a space.
func Clean(s string) string {
	s = strings.TrimSpace(emojiPattern.ReplaceAllString(s, ""))
	return dropMarker(s)
}

// classify returns the matching type and the message as it matched. A
// second attempt is made after dropping another leading marker.
func classify(msg string) (string, string) {
	for range 2 {
		for _, t := range TypeOrder {
			if typePatterns[t].MatchString(msg) {
				return t, msg
			}
		}
		stripped := dropMarker(msg)
		if stripped == msg {
			break
		}
		msg = stripped
	}
	return commit.TypeOther, msg
}

// dropMarker removes the first two runes when the second one is a space.
func dropMarker(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	if size == 0 || len(s) <= size || s[size] != ' ' {
		return s
	}
	return s[size+1:]
}
