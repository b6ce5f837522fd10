package prbody

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/djh00t/relcommit/internal/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const bodyTemplate = "templates/body.md.tmpl"

// Fallback values used when a helper command fails.
const (
	SummaryFallback = "Summary generation failed."
	ContextFallback = "Motivation context generation failed."
	PRNumberUnknown = "Unknown"
)

// SubjectSource lists commit subjects and refreshes remote branches.
type SubjectSource interface {
	Fetch(ctx context.Context, remote, branch string) error
	SubjectsBetween(ctx context.Context, base, head string) ([]string, error)
	CurrentBranch(ctx context.Context) (string, error)
}

// PRNumberSource resolves the pull request of the current branch.
type PRNumberSource interface {
	PRCurrentNumber(ctx context.Context) (int, error)
}

// runFunc runs an external helper command and returns trimmed stdout.
type runFunc func(ctx context.Context, name string) (string, error)

// Options configures one body generation.
type Options struct {
	// SourceBranch defaults to the checked-out branch.
	SourceBranch string
	DestBranch   string
	Remote       string
	// SkipFetch leaves the remote-tracking branch as is.
	SkipFetch      bool
	SummaryCommand string
	ContextCommand string
	// TemplateFile replaces the built-in layout when set.
	TemplateFile string
}

// Data is the template input.
type Data struct {
	Summary           string
	MotivationContext string
	BranchName        string
	DestBranch        string
	Actor             string
	PRNumber          string
	Categories        Categories
	Types             map[string][]string
}

// Generator renders pull request bodies.
type Generator struct {
	git    SubjectSource
	prs    PRNumberSource
	run    runFunc
	getenv func(string) string
	logger *slog.Logger
}

// NewGenerator creates a Generator. prs may be nil, in which case the PR
// number is reported as unknown.
func NewGenerator(git SubjectSource, prs PRNumberSource) *Generator {
	return &Generator{
		git:    git,
		prs:    prs,
		run:    runHelper,
		getenv: os.Getenv,
		logger: slog.Default().With("module", "prbody"),
	}
}

// Generate collects the commits the source branch adds over
// remote/dest and renders the body. Helper command failures fall back to
// placeholder text; git failures are returned.
func (g *Generator) Generate(ctx context.Context, opts Options) (string, error) {
	data, err := g.Collect(ctx, opts)
	if err != nil {
		return "", err
	}
	return Render(data, opts.TemplateFile)
}

// Collect gathers the template data without rendering.
func (g *Generator) Collect(ctx context.Context, opts Options) (Data, error) {
	dest := opts.DestBranch
	if dest == "" {
		dest = "main"
	}
	remote := opts.Remote
	if remote == "" {
		remote = "origin"
	}

	source := opts.SourceBranch
	if source == "" {
		branch, err := g.git.CurrentBranch(ctx)
		if err != nil {
			return Data{}, fmt.Errorf("resolve source branch: %w", err)
		}
		source = branch
	}

	if !opts.SkipFetch {
		if err := g.git.Fetch(ctx, remote, dest); err != nil {
			return Data{}, err
		}
	}

	subjects, err := g.git.SubjectsBetween(ctx, remote+"/"+dest, "HEAD")
	if err != nil {
		return Data{}, err
	}
	cats := Categorize(subjects)

	return Data{
		Summary:           g.helper(ctx, opts.SummaryCommand, "pr-summary-generate", SummaryFallback),
		MotivationContext: g.helper(ctx, opts.ContextCommand, "pr-context-generate", ContextFallback),
		BranchName:        source,
		DestBranch:        dest,
		Actor:             g.getenv("GITHUB_ACTOR"),
		PRNumber:          g.prNumber(ctx),
		Categories:        cats,
		Types:             cats.ByType(),
	}, nil
}

// Render executes the body template with data and appends a trailing
// newline. An empty templateFile selects the built-in layout.
func Render(data Data, templateFile string) (string, error) {
	var (
		out []byte
		err error
	)
	if templateFile != "" {
		text, readErr := os.ReadFile(templateFile)
		if readErr != nil {
			return "", fmt.Errorf("read PR body template: %w", readErr)
		}
		out, err = template.RenderString(templateFile, string(text), data)
	} else {
		out, err = template.NewRenderer(templateFS).Render(bodyTemplate, data)
	}
	if err != nil {
		return "", fmt.Errorf("render PR body: %w", err)
	}
	return strings.TrimRight(string(out), "\n") + "\n", nil
}

func (g *Generator) helper(ctx context.Context, name, fallbackName, fallback string) string {
	if name == "" {
		name = fallbackName
	}
	out, err := g.run(ctx, name)
	if err != nil {
		g.logger.Warn("helper command failed", "command", name, "error", err)
		return fallback
	}
	return out
}

func (g *Generator) prNumber(ctx context.Context) string {
	if g.prs == nil {
		return PRNumberUnknown
	}
	n, err := g.prs.PRCurrentNumber(ctx)
	if err != nil {
		g.logger.Warn("failed to get PR number", "error", err)
		return PRNumberUnknown
	}
	return strconv.Itoa(n)
}

// runHelper runs a helper command found on PATH.
func runHelper(ctx context.Context, name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s lookup: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("%s: %s: %w", name, msg, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
