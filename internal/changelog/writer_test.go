package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/djh00t/relcommit/internal/commit"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"feat":     "Features",
		"fix":      "Bug Fixes",
		"perf":     "Performance Improvements",
		"revert":   "Reverts",
		"docs":     "Documentation",
		"chore":    "Other Changes",
		"build":    "Other Changes",
		"refactor": "Other Changes",
		"":         "Other Changes",
		"unknown":  "Other Changes",
	}
	for typ, want := range tests {
		if got := Label(typ); got != want {
			t.Errorf("Label(%q) = %q, want %q", typ, got, want)
		}
	}
}

func TestTransform(t *testing.T) {
	t.Parallel()

	c, err := commit.ParseMessage("perf(db): batch inserts")
	if err != nil {
		t.Fatalf("ParseMessage error: %v", err)
	}
	c.Hash = "0123456789abcdef"
	c.CommitterDate = time.Date(2024, 3, 9, 14, 5, 6, 7_000_000, time.FixedZone("CET", 3600))

	got, ok := Transform(c)
	if !ok {
		t.Fatal("Transform() dropped a parsed commit")
	}
	want := Entry{
		Label:         "Performance Improvements",
		Type:          "perf",
		Scope:         "db",
		Subject:       "batch inserts",
		Hash:          "0123456789abcdef",
		ShortHash:     "0123456",
		CommitterDate: "2024-03-09T13:05:06.007Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Transform(commit.Commit{Header: commit.Header{Raw: "random"}}); ok {
		t.Error("Transform() kept an unparsed commit")
	}
}

func parsed(t *testing.T, hash, msg string) commit.Commit {
	t.Helper()
	c, err := commit.ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage(%q) error: %v", msg, err)
	}
	c.Hash = hash
	return c
}

func TestWriterRender(t *testing.T) {
	t.Parallel()

	commits := []commit.Commit{
		parsed(t, "bbbbbbb1", "fix: b-task"),
		parsed(t, "aaaaaaa1", "fix(core): a-task"),
		parsed(t, "ccccccc1", "feat(parser): add support for x"),
		parsed(t, "ddddddd1", "chore: bump deps"),
		parsed(t, "eeeeeee1", "feat(api)!: drop v1"),
		{Hash: "fffffff1", Header: commit.Header{Raw: "Merge branch 'main'"}},
	}

	out, err := NewWriter().Render(Context{
		Version:       "2.0.0",
		PreviousTag:   "v1.4.0",
		TagPrefix:     "v",
		Date:          time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		RepositoryURL: "git@github.com:djh00t/sops-pre-commit.git",
	}, commits)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	base := "https://github.com/djh00t/sops-pre-commit"
	want := "## [2.0.0](" + base + "/compare/v1.4.0...v2.0.0) (2024-05-01)\n" +
		"\n\n### ⚠ BREAKING CHANGES\n" +
		"\n* **api:** drop v1\n" +
		"\n\n### Features\n" +
		"\n* **parser:** add support for x ([ccccccc](" + base + "/commit/ccccccc1))" +
		"\n* **api:** drop v1 ([eeeeeee](" + base + "/commit/eeeeeee1))\n" +
		"\n\n### Bug Fixes\n" +
		"\n* **core:** a-task ([aaaaaaa](" + base + "/commit/aaaaaaa1))" +
		"\n* b-task ([bbbbbbb](" + base + "/commit/bbbbbbb1))\n" +
		"\n\n### Other Changes\n" +
		"\n* bump deps ([ddddddd](" + base + "/commit/ddddddd1))\n"

	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestWriterRenderPatchHeading(t *testing.T) {
	t.Parallel()

	out, err := NewWriter().Render(Context{
		Version: "1.0.1",
		Date:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}, []commit.Commit{parsed(t, "", "fix: tidy")})
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	want := "### 1.0.1 (2024-05-01)\n\n\n### Bug Fixes\n\n* tidy\n"
	if out != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
}

func TestWriterRenderRequiresVersion(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter().Render(Context{}, nil); err == nil {
		t.Error("Render without version should fail")
	}
}

func TestPrependAndLatestVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := Prepend(path, "# Changelog", "## 1.0.0 (2024-01-01)\n\n* first\n"); err != nil {
		t.Fatalf("Prepend #1 error: %v", err)
	}
	if err := Prepend(path, "# Changelog", "## [1.1.0](https://x/compare/v1.0.0...v1.1.0) (2024-02-01)\n\n* second\n"); err != nil {
		t.Fatalf("Prepend #2 error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read changelog: %v", err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# Changelog\n\n## [1.1.0]") {
		t.Errorf("changelog should start with title then newest notes, got:\n%s", content)
	}
	if strings.Count(content, "# Changelog") != 1 {
		t.Errorf("title duplicated:\n%s", content)
	}
	if strings.Index(content, "1.1.0") > strings.Index(content, "## 1.0.0") {
		t.Errorf("newest notes must come first:\n%s", content)
	}

	v, ok, err := LatestVersionFile(path)
	if err != nil || !ok || v != "1.1.0" {
		t.Errorf("LatestVersionFile() = (%q, %v, %v), want 1.1.0", v, ok, err)
	}
}

func TestLatestVersion(t *testing.T) {
	t.Parallel()

	md := []byte("# Changelog\n\nMentions 9.9.9 in prose.\n\n### 1.2.10 (2024-01-01)\n\n## 1.2.9\n\n## [1.3.0-rc.1](x) (2024)\n")
	v, ok := LatestVersion(md)
	if !ok || v != "1.3.0-rc.1" {
		t.Errorf("LatestVersion() = (%q, %v), want 1.3.0-rc.1", v, ok)
	}

	if _, ok := LatestVersion([]byte("# Changelog\n")); ok {
		t.Error("LatestVersion() found a version in an empty changelog")
	}
}

func TestLatestVersionFileMissing(t *testing.T) {
	t.Parallel()

	_, ok, err := LatestVersionFile(filepath.Join(t.TempDir(), "nope.md"))
	if err != nil || ok {
		t.Errorf("LatestVersionFile(missing) = (%v, %v), want (false, nil)", ok, err)
	}
}
