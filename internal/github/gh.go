package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/djh00t/relcommit/internal/resilience"
)

// PrereleaseLabel is added to release PRs that carry a prerelease version.
const PrereleaseLabel = "prerelease"

// PRCreateOptions holds parameters for creating a pull request.
type PRCreateOptions struct {
	Title      string
	Body       string
	BaseBranch string
	HeadBranch string
	Labels     []string
}

// args builds the gh pr create arguments.
func (o PRCreateOptions) args() []string {
	args := []string{"pr", "create", "--title", o.Title, "--body", o.Body}
	if o.BaseBranch != "" {
		args = append(args, "--base", o.BaseBranch)
	}
	if o.HeadBranch != "" {
		args = append(args, "--head", o.HeadBranch)
	}
	for _, label := range o.Labels {
		args = append(args, "--label", label)
	}
	return args
}

// ReleasePR describes the pull request that carries one release.
type ReleasePR struct {
	Version    string
	Notes      string
	Prerelease bool
	Base       string
	Head       string
	Labels     []string
}

// Options renders the release PR: a "chore(release): <version>" title,
// the notes as body, and the labels deduplicated in order with
// PrereleaseLabel appended for prereleases.
func (r ReleasePR) Options() PRCreateOptions {
	labels := make([]string, 0, len(r.Labels)+1)
	for _, l := range r.Labels {
		if l = strings.TrimSpace(l); l != "" && !slices.Contains(labels, l) {
			labels = append(labels, l)
		}
	}
	if r.Prerelease && !slices.Contains(labels, PrereleaseLabel) {
		labels = append(labels, PrereleaseLabel)
	}
	if len(labels) == 0 {
		labels = nil
	}

	return PRCreateOptions{
		Title:      "chore(release): " + r.Version,
		Body:       fmt.Sprintf("This PR includes the release %s.\n\n%s", r.Version, strings.TrimSpace(r.Notes)),
		BaseBranch: r.Base,
		HeadBranch: r.Head,
		Labels:     labels,
	}
}

// PRDetails holds what relcommit reports about a pull request.
type PRDetails struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
}

// GHClient abstracts GitHub CLI (gh) operations for testability.
type GHClient interface {
	// IsAuthenticated checks whether gh is authenticated.
	IsAuthenticated(ctx context.Context) error

	// PRCreate creates a pull request and returns the PR number.
	PRCreate(ctx context.Context, opts PRCreateOptions) (int, error)

	// PRView retrieves PR details by number.
	PRView(ctx context.Context, number int) (*PRDetails, error)

	// PRCurrentNumber returns the number of the pull request for the
	// checked-out branch.
	PRCurrentNumber(ctx context.Context) (int, error)
}

// runFunc executes gh with args in dir and returns trimmed stdout.
type runFunc func(ctx context.Context, dir string, args ...string) (string, error)

// ghClient implements GHClient using the gh CLI binary.
type ghClient struct {
	root   string
	run    runFunc
	retry  resilience.Policy
	logger *slog.Logger
}

var _ GHClient = (*ghClient)(nil)

// NewGHClient creates a gh client running in root. Read-only calls are
// retried with resilience.NetworkPolicy.
func NewGHClient(root string) GHClient {
	c := newGHClientWithRunner(root, execGH)
	c.retry = resilience.NetworkPolicy
	return c
}

// newGHClientWithRunner creates a client with a custom runner (for
// testing). Retries happen without delay.
func newGHClientWithRunner(root string, run runFunc) *ghClient {
	return &ghClient{
		root:   root,
		run:    run,
		retry:  resilience.Policy{MaxRetries: resilience.NetworkPolicy.MaxRetries},
		logger: slog.Default().With("module", "github"),
	}
}

// IsAuthenticated checks whether the gh CLI is authenticated.
func (c *ghClient) IsAuthenticated(ctx context.Context) error {
	if _, err := c.run(ctx, c.root, "auth", "status"); err != nil {
		c.logger.Debug("gh auth status failed", "error", err)
		return fmt.Errorf("check auth: %w", ErrGHNotAuthenticated)
	}
	return nil
}

// PRCreate creates a pull request and returns its number. Creation is
// never retried.
func (c *ghClient) PRCreate(ctx context.Context, opts PRCreateOptions) (int, error) {
	c.logger.Debug("creating pull request", "title", opts.Title, "base", opts.BaseBranch, "labels", opts.Labels)

	out, err := c.run(ctx, c.root, opts.args()...)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return 0, fmt.Errorf("create PR: %w", ErrPRAlreadyExists)
		}
		return 0, fmt.Errorf("create PR: %w", err)
	}

	number, err := prNumberFromURL(out)
	if err != nil {
		return 0, fmt.Errorf("create PR: %w", err)
	}
	c.logger.Info("pull request created", "number", number, "title", opts.Title)
	return number, nil
}

// PRView retrieves pull request details by number.
func (c *ghClient) PRView(ctx context.Context, number int) (*PRDetails, error) {
	out, err := c.query(ctx, "pr", "view", strconv.Itoa(number), "--json", "number,title,state,url")
	if err != nil {
		return nil, fmt.Errorf("view PR #%d: %w", number, err)
	}

	var details PRDetails
	if err := json.Unmarshal([]byte(out), &details); err != nil {
		return nil, fmt.Errorf("parse PR #%d JSON: %w", number, err)
	}
	return &details, nil
}

// PRCurrentNumber returns the pull request number of the current branch.
func (c *ghClient) PRCurrentNumber(ctx context.Context) (int, error) {
	out, err := c.query(ctx, "pr", "view", "--json", "number", "--jq", ".number")
	if err != nil {
		return 0, fmt.Errorf("current PR: %w", err)
	}

	number, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("current PR: unexpected output %q: %w", out, ErrPRNotFound)
	}
	return number, nil
}

// query runs a read-only gh command with retries. Missing pull requests
// and a missing gh binary are not retried.
func (c *ghClient) query(ctx context.Context, args ...string) (string, error) {
	var out string
	err := resilience.Retry(ctx, c.retry, func(ctx context.Context) error {
		var err error
		out, err = c.run(ctx, c.root, args...)
		switch {
		case err == nil:
			return nil
		case isNotFound(err):
			return resilience.Permanent(fmt.Errorf("%w: %v", ErrPRNotFound, err))
		case errors.Is(err, ErrGHNotFound):
			return resilience.Permanent(err)
		}
		return err
	})
	return out, err
}

func isNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "Could not resolve") ||
		strings.Contains(msg, "no pull requests found")
}

// execGH runs a gh CLI command and returns trimmed stdout.
func execGH(ctx context.Context, dir string, args ...string) (string, error) {
	path, err := exec.LookPath("gh")
	if err != nil {
		return "", fmt.Errorf("gh lookup: %w", ErrGHNotFound)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("gh %s: %s: %w", strings.Join(args[:min(len(args), 2)], " "), msg, err)
	}
	return strings.TrimRight(stdout.String(), "\n\r"), nil
}

// pullURL matches the URL gh prints after creating a pull request.
var pullURL = regexp.MustCompile(`/pull/(\d+)\s*$`)

// prNumberFromURL extracts the PR number from gh pr create output. gh may
// print warnings first; the URL is on the last line.
func prNumberFromURL(out string) (int, error) {
	m := pullURL.FindStringSubmatch(strings.TrimSpace(out))
	if m == nil {
		return 0, fmt.Errorf("no pull request URL in %q", out)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid pull request number in %q", out)
	}
	return n, nil
}
