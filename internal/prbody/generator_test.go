package prbody

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeGit struct {
	branch     string
	subjects   []string
	fetchErr   error
	fetched    []string
	logRange   []string
	branchUsed bool
}

func (f *fakeGit) Fetch(_ context.Context, remote, branch string) error {
	f.fetched = append(f.fetched, remote+"/"+branch)
	return f.fetchErr
}

func (f *fakeGit) SubjectsBetween(_ context.Context, base, head string) ([]string, error) {
	f.logRange = []string{base, head}
	return f.subjects, nil
}

func (f *fakeGit) CurrentBranch(context.Context) (string, error) {
	f.branchUsed = true
	return f.branch, nil
}

type fakePRs struct {
	number int
	err    error
}

func (f fakePRs) PRCurrentNumber(context.Context) (int, error) { return f.number, f.err }

func newTestGenerator(git SubjectSource, prs PRNumberSource, helpers map[string]string) *Generator {
	g := NewGenerator(git, prs)
	g.run = func(_ context.Context, name string) (string, error) {
		out, ok := helpers[name]
		if !ok {
			return "", errors.New("not found")
		}
		return out, nil
	}
	g.getenv = func(k string) string {
		if k == "GITHUB_ACTOR" {
			return "alice"
		}
		return ""
	}
	return g
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	git := &fakeGit{branch: "feature", subjects: []string{"feat: a", "🐛 fix(x): b"}}
	g := newTestGenerator(git, fakePRs{number: 12}, map[string]string{
		"pr-summary-generate": "S",
		"pr-context-generate": "M",
	})

	got, err := g.Generate(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	want := "## Summary\n\nS\n\n" +
		"## Motivation and Context\n\nM\n\n" +
		"## Changes\n\n### feat\n\n- feat: a\n\n### fix\n\n- fix(x): b\n\n" +
		"## Pull Request\n\n- Number: #12\n- Branch: `feature` into `main`\n- Opened by: @alice\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}

	if !slices.Equal(git.fetched, []string{"origin/main"}) {
		t.Errorf("fetched %v, want origin/main", git.fetched)
	}
	if !slices.Equal(git.logRange, []string{"origin/main", "HEAD"}) {
		t.Errorf("log range %v", git.logRange)
	}
}

func TestCollectFallbacks(t *testing.T) {
	t.Parallel()

	git := &fakeGit{branch: "feature"}
	g := newTestGenerator(git, fakePRs{err: errors.New("no pr")}, nil)

	data, err := g.Collect(context.Background(), Options{
		SourceBranch: "topic",
		DestBranch:   "develop",
		Remote:       "upstream",
		SkipFetch:    true,
	})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if data.Summary != SummaryFallback || data.MotivationContext != ContextFallback {
		t.Errorf("fallbacks not applied: %q / %q", data.Summary, data.MotivationContext)
	}
	if data.PRNumber != PRNumberUnknown {
		t.Errorf("PRNumber = %q, want %q", data.PRNumber, PRNumberUnknown)
	}
	if data.BranchName != "topic" || git.branchUsed {
		t.Error("explicit source branch should not query git")
	}
	if len(git.fetched) != 0 {
		t.Error("SkipFetch should not fetch")
	}
	if !slices.Equal(git.logRange, []string{"upstream/develop", "HEAD"}) {
		t.Errorf("log range %v", git.logRange)
	}

	body, err := Render(data, "")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(body, "No changes.") {
		t.Errorf("empty body should say no changes:\n%s", body)
	}
}

func TestCollectFetchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("offline")
	g := newTestGenerator(&fakeGit{branch: "x", fetchErr: boom}, nil, nil)
	if _, err := g.Collect(context.Background(), Options{}); !errors.Is(err, boom) {
		t.Errorf("Collect() error = %v, want %v", err, boom)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "body.tmpl")
	text := `{{ .BranchName }}{{ range index .Types "feat" }} [{{ . }}]{{ end }}`
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	data := Data{BranchName: "b", Types: Categorize([]string{"feat: x"}).ByType()}
	got, err := Render(data, path)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != "b [feat: x]\n" {
		t.Errorf("Render() = %q", got)
	}

	if _, err := Render(data, filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Render() with missing template should fail")
	}
}
