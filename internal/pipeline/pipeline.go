// Package pipeline computes a release plan: it reads the history since
// the last release tag, decides the version bump, renders the release
// notes and interpolates the profile with the result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/djh00t/relcommit/internal/changelog"
	"github.com/djh00t/relcommit/internal/commit"
	"github.com/djh00t/relcommit/internal/config"
	"github.com/djh00t/relcommit/internal/git"
	"github.com/djh00t/relcommit/internal/release"
)

// ErrBranchNotConfigured indicates the current branch is not a release
// branch of the profile.
var ErrBranchNotConfigured = errors.New("pipeline: branch is not a release branch")

// History is the subset of the repository reader a plan needs.
type History interface {
	LastTag(ctx context.Context, prefix, channel string) (git.Tag, bool, error)
	CommitsSince(ctx context.Context, tag git.Tag) ([]git.RawCommit, error)
}

// Request describes what to plan.
type Request struct {
	Profile config.Profile
	// Branch is the checked-out branch.
	Branch string
	// AnyBranch plans a regular release from branches the profile does not
	// list, for previews.
	AnyBranch bool
	// ChangelogPath is consulted for the last version when no tag exists.
	ChangelogPath string
	Getenv        func(string) string
	// Now dates the notes; zero means time.Now.
	Now time.Time
}

// Plan is the outcome of planning.
type Plan struct {
	// Profile is interpolated with the environment and, when releasable,
	// the next release.
	Profile     config.Profile
	Branch      config.Branch
	LastTag     git.Tag
	HasLastTag  bool
	LastVersion string
	Commits     []commit.Commit
	Bump        release.Type
	Version     string
	Tag         string
	Notes       string
}

// Releasable reports whether the commits warrant a new version.
func (p *Plan) Releasable() bool {
	return p.Bump != release.None
}

// NextRelease returns the interpolation values for the planned release.
func (p *Plan) NextRelease() *config.NextRelease {
	return &config.NextRelease{
		Version: p.Version,
		Notes:   p.Notes,
		GitTag:  p.Tag,
		Channel: p.Branch.PrereleaseChannel(),
	}
}

// Planner builds release plans.
type Planner struct {
	history History
	writer  *changelog.Writer
	logger  *slog.Logger
}

// New creates a Planner reading from h.
func New(h History) *Planner {
	return &Planner{
		history: h,
		writer:  changelog.NewWriter(),
		logger:  slog.Default().With("module", "pipeline"),
	}
}

// Plan analyses the commits since the last release tag.
func (pl *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	vars := config.Vars{Getenv: req.Getenv}
	profile := req.Profile.Interpolate(vars)

	branch, ok := profile.BranchFor(req.Branch)
	if !ok {
		if !req.AnyBranch {
			return nil, fmt.Errorf("%w: %q (profile %s releases from %s)",
				ErrBranchNotConfigured, req.Branch, profile.Name, branchNames(profile.Branches))
		}
		branch = config.Branch{Name: req.Branch}
	}

	parser, err := profile.CommitParser()
	if err != nil {
		return nil, err
	}
	rules, err := profile.Rules()
	if err != nil {
		return nil, err
	}

	plan := &Plan{Profile: profile, Branch: branch}

	prefix := profile.TagPrefix()
	plan.LastTag, plan.HasLastTag, err = pl.history.LastTag(ctx, prefix, branch.PrereleaseChannel())
	if err != nil {
		return nil, err
	}
	plan.LastVersion = plan.LastTag.Version
	if !plan.HasLastTag && req.ChangelogPath != "" {
		v, found, err := changelog.LatestVersionFile(req.ChangelogPath)
		if err != nil {
			return nil, err
		}
		if found {
			pl.logger.Info("no release tag, continuing from changelog", "version", v)
			plan.LastVersion = v
		}
	}

	raws, err := pl.history.CommitsSince(ctx, plan.LastTag)
	if err != nil {
		return nil, err
	}
	plan.Commits = git.ParseAll(parser, raws)
	plan.Bump = rules.Analyze(plan.Commits)

	pl.logger.Debug("commits analysed",
		"branch", branch.Name, "last", plan.LastVersion, "commits", len(plan.Commits), "bump", plan.Bump)

	if !plan.Releasable() {
		return plan, nil
	}

	plan.Version, err = release.Next(plan.LastVersion, plan.Bump, branch.PrereleaseChannel())
	if err != nil {
		return nil, err
	}
	plan.Tag = profile.Tag(plan.Version)

	plan.Notes, err = pl.writer.Render(changelog.Context{
		Version:       plan.Version,
		PreviousTag:   plan.LastTag.Name,
		TagPrefix:     prefix,
		Date:          req.Now,
		RepositoryURL: profile.RepositoryURL,
		SortFields:    profile.SortFields(),
	}, plan.Commits)
	if err != nil {
		return nil, err
	}

	vars.Release = plan.NextRelease()
	plan.Profile = req.Profile.Interpolate(vars)
	return plan, nil
}

func branchNames(branches []config.Branch) string {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return strings.Join(names, ", ")
}
