package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/djh00t/relcommit/internal/resilience"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 30 * time.Second

// runFunc executes git with args in dir and returns trimmed stdout.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// CLI runs operations that need the git binary, such as talking to
// remotes.
type CLI struct {
	dir    string
	run    runFunc
	retry  resilience.Policy
	logger *slog.Logger
}

// NewCLI creates a CLI rooted at dir.
func NewCLI(dir string) *CLI {
	c := newCLIWithRunner(dir, execGit)
	c.retry = resilience.NetworkPolicy
	return c
}

// newCLIWithRunner creates a CLI with a custom runner (for testing).
// Retries happen without delay.
func newCLIWithRunner(dir string, run runFunc) *CLI {
	return &CLI{
		dir:    dir,
		run:    run,
		retry:  resilience.Policy{MaxRetries: resilience.NetworkPolicy.MaxRetries},
		logger: slog.Default().With("module", "git"),
	}
}

// Fetch updates the remote-tracking branch for branch, retrying
// transient failures.
func (c *CLI) Fetch(ctx context.Context, remote, branch string) error {
	attempt := 0
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context) error {
		attempt++
		ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()

		c.logger.Debug("fetching", "remote", remote, "branch", branch, "attempt", attempt)
		_, err := c.run(ctx, c.dir, "fetch", remote, branch)
		if errors.Is(err, ErrSystemGitNotFound) {
			return resilience.Permanent(err)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("fetch %s/%s: %w", remote, branch, err)
	}
	return nil
}

// SubjectsBetween returns the subject lines of commits in base..head,
// newest first.
func (c *CLI) SubjectsBetween(ctx context.Context, base, head string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	out, err := c.run(ctx, c.dir, "log", base+".."+head, "--pretty=format:%s")
	if err != nil {
		return nil, fmt.Errorf("log %s..%s: %w", base, head, err)
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CurrentBranch returns the checked-out branch name.
func (c *CLI) CurrentBranch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	out, err := c.run(ctx, c.dir, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", fmt.Errorf("current branch: %w", ErrDetachedHEAD)
	}
	return out, nil
}

// execGit runs a git command and returns trimmed stdout.
func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	gitPath, err := exec.LookPath("git")
	if err != nil {
		return "", fmt.Errorf("system git lookup: %w", ErrSystemGitNotFound)
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrStr := strings.TrimSpace(stderr.String())
		if len(args) > 0 {
			return "", fmt.Errorf("git %s: %s: %w", args[0], stderrStr, err)
		}
		return "", fmt.Errorf("git: %s: %w", stderrStr, err)
	}

	return strings.TrimRight(stdout.String(), "\n\r"), nil
}
