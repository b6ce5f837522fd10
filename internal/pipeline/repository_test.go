package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/djh00t/relcommit/internal/git"
)

// commitFile commits a one-line change with msg and returns its hash.
func commitFile(t *testing.T, repo *gogit.Repository, dir, msg string, n int) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "file.txt"), []byte(msg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add("file.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	hash, err := wt.Commit(msg, &gogit.CommitOptions{Author: &object.Signature{
		Name:  "Test",
		Email: "test@example.com",
		When:  time.Date(2024, 1, 1, 0, 0, n, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return hash
}

func TestPlanIgnoresPrereleaseTagsOnRegularBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	tags := []struct{ msg, tag string }{
		{"feat: one", "v1.0.0"},
		{"fix: two", "v1.1.0-rc.1"},
	}
	for i, tt := range tags {
		if _, err := repo.CreateTag(tt.tag, commitFile(t, repo, dir, tt.msg, i), nil); err != nil {
			t.Fatalf("CreateTag(%s): %v", tt.tag, err)
		}
	}
	commitFile(t, repo, dir, "fix: three", len(tags))

	h, err := git.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}

	tests := []struct {
		profile, branch string
		last, next      string
		commits         int
	}{
		{"full", "main", "1.0.0", "1.0.1", 2},
		{"pre-release", "rc", "1.1.0-rc.1", "1.1.0-rc.2", 1},
	}
	for _, tt := range tests {
		plan, err := New(h).Plan(context.Background(), Request{
			Profile: mustProfile(t, tt.profile),
			Branch:  tt.branch,
			Getenv:  env(nil),
			Now:     day,
		})
		if err != nil {
			t.Fatalf("Plan(%s) error: %v", tt.branch, err)
		}
		if plan.LastVersion != tt.last || plan.Version != tt.next || len(plan.Commits) != tt.commits {
			t.Errorf("Plan(%s) = last %s next %s with %d commits, want %s -> %s with %d",
				tt.branch, plan.LastVersion, plan.Version, len(plan.Commits), tt.last, tt.next, tt.commits)
		}
	}
}
