package changelog

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/djh00t/relcommit/internal/commit"
	"github.com/djh00t/relcommit/internal/release"
	"github.com/djh00t/relcommit/internal/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const notesTemplate = "templates/notes.md.tmpl"

// Context carries release metadata for rendering notes.
type Context struct {
	Version     string
	PreviousTag string
	// TagPrefix is prepended to Version to build the current tag name.
	TagPrefix     string
	Date          time.Time
	RepositoryURL string
	// SortFields orders entries inside a section; defaults to
	// commit.DefaultSortFields.
	SortFields []string
}

// Group is one rendered section.
type Group struct {
	Title   string
	Entries []Entry
}

// BreakingNote is one item of the breaking-changes section.
type BreakingNote struct {
	Scope string
	Text  string
}

// notesData is the template input.
type notesData struct {
	Heading       string
	Version       string
	Date          string
	CompareURL    string
	BreakingNotes []BreakingNote
	Groups        []Group
}

// Writer renders release notes from commits.
type Writer struct {
	renderer template.Renderer
}

// NewWriter creates a Writer using the embedded notes template.
func NewWriter() *Writer {
	return &Writer{renderer: template.NewRenderer(templateFS)}
}

// Render produces the markdown release-notes section for ctx.Version.
// Unparsed commits are skipped. Patch releases use a level-3 heading.
func (w *Writer) Render(ctx Context, commits []commit.Commit) (string, error) {
	if ctx.Version == "" {
		return "", fmt.Errorf("render notes: version is required")
	}

	sorted := slices.Clone(commits)
	fields := ctx.SortFields
	if len(fields) == 0 {
		fields = commit.DefaultSortFields
	}
	commit.SortBy(sorted, fields)

	baseURL := normalizeRepositoryURL(ctx.RepositoryURL)
	data := notesData{
		Heading:    heading(ctx),
		Version:    ctx.Version,
		Date:       renderDate(ctx.Date),
		CompareURL: compareURL(baseURL, ctx.PreviousTag, ctx.TagPrefix+ctx.Version),
		Groups:     group(sorted, baseURL),
	}
	for _, c := range sorted {
		if !c.Parsed {
			continue
		}
		for _, n := range c.Notes {
			data.BreakingNotes = append(data.BreakingNotes, BreakingNote{Scope: c.Header.Scope, Text: n.Text})
		}
		if c.Header.Breaking && len(c.Notes) == 0 {
			data.BreakingNotes = append(data.BreakingNotes, BreakingNote{Scope: c.Header.Scope, Text: c.Header.Subject})
		}
	}

	out, err := w.renderer.Render(notesTemplate, data)
	if err != nil {
		return "", fmt.Errorf("render notes: %w", err)
	}
	return strings.TrimRight(string(out), "\n") + "\n", nil
}

// group buckets commits by label in LabelOrder, dropping empty sections.
func group(commits []commit.Commit, baseURL string) []Group {
	buckets := make(map[string][]Entry, len(LabelOrder))
	for _, c := range commits {
		e, ok := Transform(c)
		if !ok {
			continue
		}
		if baseURL != "" && e.Hash != "" {
			e.CommitURL = baseURL + "/commit/" + e.Hash
		}
		buckets[e.Label] = append(buckets[e.Label], e)
	}

	var groups []Group
	for _, label := range LabelOrder {
		if entries := buckets[label]; len(entries) > 0 {
			groups = append(groups, Group{Title: label, Entries: entries})
		}
	}
	return groups
}

func heading(ctx Context) string {
	v, err := release.ParseVersion(ctx.Version)
	if err == nil && !v.IsPrerelease() && v.Patch > 0 {
		return "###"
	}
	return "##"
}

func renderDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.DateOnly)
}

func compareURL(baseURL, from, to string) string {
	if baseURL == "" || from == "" {
		return ""
	}
	return fmt.Sprintf("%s/compare/%s...%s", baseURL, from, to)
}

// normalizeRepositoryURL turns clone URLs into browsable https URLs.
func normalizeRepositoryURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(u, "git@"); ok {
		host, path, found := strings.Cut(rest, ":")
		if found {
			u = "https://" + host + "/" + path
		}
	}
	u = strings.TrimPrefix(u, "git+")
	u = strings.TrimSuffix(u, "/")
	return strings.TrimSuffix(u, ".git")
}
