package prbody

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"feat: plain", "feat: plain"},
		{"✨ feat: sparkle", "feat: sparkle"},
		{"🐛 fix(api): bug", "fix(api): bug"},
		{"  docs: padded  ", "docs: padded"},
		{"- chore: bullet", "chore: bullet"},
		{"", ""},
		{"x", "x"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	t.Parallel()

	got := Categorize([]string{
		"feat(parser): add x",
		"✨ feat: sparkle",
		"fix: bug",
		"* - test: nested marker",
		"Merge branch 'main'",
		"",
		"ci(actions): cache",
		"refactor:missing space is fine",
	})

	want := map[string][]string{
		"build":    nil,
		"chore":    nil,
		"ci":       {"ci(actions): cache"},
		"docs":     nil,
		"feat":     {"feat(parser): add x", "feat: sparkle"},
		"fix":      {"fix: bug"},
		"other":    {"Merge branch 'main'"},
		"perf":     nil,
		"refactor": {"refactor:missing space is fine"},
		"revert":   nil,
		"style":    nil,
		"test":     {"test: nested marker"},
	}
	if diff := cmp.Diff(want, got.ByType()); diff != "" {
		t.Errorf("Categorize() mismatch (-want +got):\n%s", diff)
	}

	var order []string
	for _, c := range got {
		order = append(order, c.Type)
	}
	if diff := cmp.Diff(TypeOrder, order); diff != "" {
		t.Errorf("category order mismatch (-want +got):\n%s", diff)
	}

	var nonEmpty []string
	for _, c := range got.NonEmpty() {
		nonEmpty = append(nonEmpty, c.Type)
	}
	if diff := cmp.Diff([]string{"ci", "feat", "fix", "other", "refactor", "test"}, nonEmpty); diff != "" {
		t.Errorf("NonEmpty() mismatch (-want +got):\n%s", diff)
	}
}

func TestCategorizeScopeWithoutSpaces(t *testing.T) {
	t.Parallel()

	got := Categorize([]string{"feat(two words): x"}).ByType()
	if len(got["other"]) != 1 {
		t.Errorf("scope with spaces should fall into other, got %v", got)
	}
}
