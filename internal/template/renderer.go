// Package template renders text/template files from an fs.FS in strict
// mode. It backs the release-notes and pull-request body writers.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

// Sentinel errors for template rendering.
var (
	// ErrTemplateNotFound indicates the named template does not exist in the FS.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrMissingTemplateKey indicates the data lacks a key the template uses.
	ErrMissingTemplateKey = errors.New("template: missing key")
)

// templateFuncMap provides custom functions available in all templates.
var templateFuncMap = template.FuncMap{
	"join":      strings.Join,
	"trimSpace": strings.TrimSpace,
	// indent prefixes every line after the first with n spaces, for
	// multi-line list items in markdown.
	"indent": func(n int, s string) string {
		pad := strings.Repeat(" ", n)
		return strings.ReplaceAll(s, "\n", "\n"+pad)
	},
}

// Renderer renders Go text/template files with strict mode enabled.
type Renderer interface {
	// Render parses the named template from the FS and executes it with
	// the given data. Returns ErrTemplateNotFound when the file is
	// missing and ErrMissingTemplateKey if a key is missing.
	Render(templateName string, data any) ([]byte, error)
}

// renderer is the concrete implementation of Renderer.
type renderer struct {
	fsys fs.FS
}

// NewRenderer creates a Renderer backed by the given filesystem.
func NewRenderer(fsys fs.FS) Renderer {
	return &renderer{fsys: fsys}
}

// Render parses and executes a template with strict mode (missingkey=error).
func (r *renderer) Render(templateName string, data any) ([]byte, error) {
	content, err := fs.ReadFile(r.fsys, templateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}
	return RenderString(templateName, string(content), data)
}

// RenderString parses and executes template text that did not come from
// an FS, such as a user-supplied override file.
func RenderString(name, text string, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(templateFuncMap).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("template parse %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingTemplateKey, err)
	}
	return buf.Bytes(), nil
}
