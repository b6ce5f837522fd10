package changelog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/djh00t/relcommit/internal/release"
)

// DefaultFile is the changelog path relative to the repository root.
const DefaultFile = "CHANGELOG.md"

// versionPattern finds semantic versions inside heading text.
var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?`)

// Prepend inserts notes at the top of the changelog at path, below title
// when one is given. The file is created if missing and replaced
// atomically.
func Prepend(path, title, notes string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read changelog: %w", err)
	}

	content := compose(string(existing), title, notes)

	// renameio handles temp file creation, fsync, atomic rename and cleanup.
	pending, err := renameio.NewPendingFile(path,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return fmt.Errorf("create pending changelog: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.WriteString(content); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace changelog: %w", err)
	}
	return nil
}

// compose builds the new changelog body.
func compose(existing, title, notes string) string {
	rest := strings.TrimSpace(existing)
	if title != "" {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, strings.TrimSpace(title)))
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(strings.TrimSpace(title))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimSpace(notes))
	b.WriteString("\n")
	if rest != "" {
		b.WriteString("\n")
		b.WriteString(rest)
		b.WriteString("\n")
	}
	return b.String()
}

// LatestVersion returns the highest version found in the changelog's
// headings. The boolean is false when no heading names a version.
func LatestVersion(markdown []byte) (string, bool) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	latest := ""
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != ast.KindHeading {
			return ast.WalkContinue, nil
		}

		var line bytes.Buffer
		lines := n.Lines()
		for i := range lines.Len() {
			seg := lines.At(i)
			line.Write(seg.Value(markdown))
		}

		for _, v := range versionPattern.FindAllString(line.String(), -1) {
			if latest == "" || release.Compare(v, latest) > 0 {
				latest = v
			}
		}
		return ast.WalkSkipChildren, nil
	})

	return latest, latest != ""
}

// LatestVersionFile reads path and returns LatestVersion of its content.
// A missing file yields ("", false, nil).
func LatestVersionFile(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read changelog: %w", err)
	}
	v, ok := LatestVersion(data)
	return v, ok, nil
}
