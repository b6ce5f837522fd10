package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/djh00t/relcommit/internal/commit"
	"github.com/djh00t/relcommit/internal/release"
)

// Tag is a release tag resolved to the commit it marks.
type Tag struct {
	Name    string
	Version string
	Hash    string
}

// RawCommit is a commit as stored in the repository.
type RawCommit struct {
	Hash          string
	Message       string
	Author        string
	CommitterDate time.Time
}

// Parse parses the commit message with p and carries over the metadata.
// Non-conventional messages yield an unparsed commit.
func (r RawCommit) Parse(p *commit.Parser) commit.Commit {
	c, _ := p.ParseMessage(r.Message)
	c.Hash = r.Hash
	c.Author = r.Author
	c.CommitterDate = r.CommitterDate
	return c
}

// ParseAll parses every commit with p, keeping order.
func ParseAll(p *commit.Parser, raws []RawCommit) []commit.Commit {
	out := make([]commit.Commit, len(raws))
	for i, r := range raws {
		out[i] = r.Parse(p)
	}
	return out
}

// History reads commits and tags through go-git, without a git binary.
type History struct {
	repo   *gogit.Repository
	logger *slog.Logger
}

// Open opens the repository containing path.
// Returns ErrNotRepository if path is not inside a Git repository.
func Open(path string) (*History, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open repository at %s: %w", path, ErrNotRepository)
		}
		return nil, fmt.Errorf("open repository at %s: %w", path, err)
	}

	logger := slog.Default().With("module", "git")
	logger.Debug("repository opened", "path", path)
	return &History{repo: repo, logger: logger}, nil
}

// CurrentBranch returns the short name of the checked-out branch.
func (h *History) CurrentBranch() (string, error) {
	head, err := h.head()
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHEAD
	}
	return head.Name().Short(), nil
}

// LastTag returns the highest semantic-version tag reachable from HEAD.
// Only tags named prefix+version are considered. Prerelease tags count
// only when their channel equals channel, so a regular branch ("")
// continues from the last regular release. The boolean is false when no
// such tag exists.
func (h *History) LastTag(ctx context.Context, prefix, channel string) (Tag, bool, error) {
	head, err := h.head()
	if err != nil {
		return Tag{}, false, err
	}

	byCommit, err := h.versionTags(prefix)
	if err != nil {
		return Tag{}, false, err
	}
	if len(byCommit) == 0 {
		return Tag{}, false, nil
	}

	var best Tag
	found := false
	err = h.walk(ctx, head.Hash(), func(c *object.Commit) error {
		for _, t := range byCommit[c.Hash] {
			if !onChannel(t.Version, channel) {
				continue
			}
			if !found || release.Compare(t.Version, best.Version) > 0 {
				best, found = t, true
			}
		}
		return nil
	})
	if err != nil {
		return Tag{}, false, err
	}

	h.logger.Debug("last tag resolved", "tag", best.Name, "channel", channel, "found", found)
	return best, found, nil
}

// onChannel reports whether version is a regular release or a prerelease
// on channel.
func onChannel(version, channel string) bool {
	v, err := release.ParseVersion(version)
	if err != nil {
		return false
	}
	return !v.IsPrerelease() || (channel != "" && v.Channel == channel)
}

// CommitsSince returns the commits reachable from HEAD but not from the
// tagged commit, newest first. An empty tag returns the full history.
func (h *History) CommitsSince(ctx context.Context, tag Tag) ([]RawCommit, error) {
	head, err := h.head()
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]bool)
	if tag.Hash != "" {
		err := h.walk(ctx, plumbing.NewHash(tag.Hash), func(c *object.Commit) error {
			seen[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", tag.Name, err)
		}
	}

	var out []RawCommit
	err = h.walk(ctx, head.Hash(), func(c *object.Commit) error {
		if seen[c.Hash] {
			return nil
		}
		out = append(out, RawCommit{
			Hash:          c.Hash.String(),
			Message:       strings.TrimRight(c.Message, "\n"),
			Author:        c.Author.Name,
			CommitterDate: c.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Debug("commits collected", "since", tag.Name, "count", len(out))
	return out, nil
}

// ResolveTag finds the tag with the given name.
func (h *History) ResolveTag(name string) (Tag, error) {
	ref, err := h.repo.Tag(name)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}
	hash, err := h.tagCommit(ref)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Name: name, Hash: hash.String()}, nil
}

func (h *History) head() (*plumbing.Reference, error) {
	head, err := h.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, ErrNoCommits
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}
	return head, nil
}

// versionTags indexes tags that parse as prefix+semver by commit.
func (h *History) versionTags(prefix string) (map[plumbing.Hash][]Tag, error) {
	iter, err := h.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer iter.Close()

	out := make(map[plumbing.Hash][]Tag)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		raw, ok := strings.CutPrefix(name, prefix)
		if !ok {
			return nil
		}
		if _, err := release.ParseVersion(raw); err != nil {
			return nil
		}
		hash, err := h.tagCommit(ref)
		if err != nil {
			h.logger.Debug("skipping tag", "tag", name, "error", err)
			return nil
		}
		out[hash] = append(out[hash], Tag{Name: name, Version: strings.TrimPrefix(raw, "v"), Hash: hash.String()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// tagCommit peels annotated tags down to their commit.
func (h *History) tagCommit(ref *plumbing.Reference) (plumbing.Hash, error) {
	obj, err := h.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		c, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("peel tag %s: %w", ref.Name().Short(), err)
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, fmt.Errorf("read tag %s: %w", ref.Name().Short(), err)
	}
}

// walk visits every commit reachable from from, honouring ctx cancellation.
func (h *History) walk(ctx context.Context, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := h.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("log %s: %w", from.String()[:7], err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
	if errors.Is(err, storer.ErrStop) {
		return nil
	}
	return err
}
