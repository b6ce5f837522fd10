package release

import (
	"errors"
	"testing"

	"github.com/djh00t/relcommit/internal/commit"
)

func TestDefaultRulesTable(t *testing.T) {
	t.Parallel()

	want := map[string]Type{
		"build":    Patch,
		"chore":    Patch,
		"ci":       Patch,
		"docs":     Patch,
		"feat":     Minor,
		"fix":      Patch,
		"perf":     Patch,
		"refactor": Patch,
		"revert":   Patch,
		"style":    Patch,
		"test":     Patch,
		"other":    Patch,
	}

	rules := Default()
	if got := len(rules.Types()); got != len(want) {
		t.Fatalf("Default() has %d rules, want %d", got, len(want))
	}
	for typ, release := range want {
		got, ok := rules.For(typ)
		if !ok {
			t.Errorf("For(%q) missing", typ)
			continue
		}
		if got != release {
			t.Errorf("For(%q) = %s, want %s", typ, got, release)
		}
	}
}

func TestRulesForUnknownType(t *testing.T) {
	t.Parallel()

	got, ok := Default().For("wip")
	if ok || got != None {
		t.Errorf("For(wip) = (%s, %v), want (none, false)", got, ok)
	}
}

func TestNewRulesOverride(t *testing.T) {
	t.Parallel()

	rules, err := NewRules(append(DefaultRules, Rule{Type: "docs", Release: "false"}))
	if err != nil {
		t.Fatalf("NewRules() error = %v", err)
	}
	if got, _ := rules.For("docs"); got != None {
		t.Errorf("For(docs) = %s, want none after override", got)
	}
}

func TestNewRulesRejectsUnknownRelease(t *testing.T) {
	t.Parallel()

	_, err := NewRules([]Rule{{Type: "feat", Release: "huge"}})
	if !errors.Is(err, ErrUnknownReleaseType) {
		t.Errorf("NewRules() error = %v, want ErrUnknownReleaseType", err)
	}
}

func mustParse(t *testing.T, msg string) commit.Commit {
	t.Helper()
	c, _ := commit.ParseMessage(msg)
	return c
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	rules := Default()
	tests := []struct {
		name     string
		messages []string
		want     Type
	}{
		{"no commits", nil, None},
		{"only unparsed", []string{"Merge pull request #1"}, None},
		{"unknown type", []string{"wip: halfway"}, None},
		{"patch only", []string{"fix: a", "chore: b"}, Patch},
		{"feat wins over fix", []string{"fix: a", "feat: b"}, Minor},
		{"bang is major", []string{"feat: b", "fix!: critical bug"}, Major},
		{"footer is major", []string{"docs: x\n\nBREAKING CHANGE: moved docs"}, Major},
		{"unparsed footer ignored", []string{"update stuff\n\nBREAKING CHANGE: no"}, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			commits := make([]commit.Commit, 0, len(tt.messages))
			for _, m := range tt.messages {
				commits = append(commits, mustParse(t, m))
			}
			if got := rules.Analyze(commits); got != tt.want {
				t.Errorf("Analyze() = %s, want %s", got, tt.want)
			}
		})
	}
}
