package template

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestRendererRender(t *testing.T) {
	t.Run("successful_render", func(t *testing.T) {
		fs := fstest.MapFS{
			"notes.md.tmpl": &fstest.MapFile{
				Data: []byte("## {{.Version}}\n\n{{join .Items \", \"}}\n"),
			},
		}
		r := NewRenderer(fs)

		data := map[string]any{
			"Version": "1.2.0",
			"Items":   []string{"a", "b"},
		}

		result, err := r.Render("notes.md.tmpl", data)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}

		expected := "## 1.2.0\n\na, b\n"
		if string(result) != expected {
			t.Errorf("Render result = %q, want %q", string(result), expected)
		}
	})

	t.Run("missing_key_strict_mode", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{
				Data: []byte("Hello {{.Name}}, your branch is {{.Branch}}"),
			},
		}
		r := NewRenderer(fs)

		data := map[string]string{
			"Name": "octocat",
		}

		_, err := r.Render("test.tmpl", data)
		if err == nil {
			t.Fatal("expected error for missing key")
		}
		if !errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("expected ErrMissingTemplateKey, got: %v", err)
		}
	})

	t.Run("nonexistent_template", func(t *testing.T) {
		r := NewRenderer(fstest.MapFS{})

		_, err := r.Render("nonexistent.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got: %v", err)
		}
	})

	t.Run("parse_error", func(t *testing.T) {
		fs := fstest.MapFS{
			"bad.tmpl": &fstest.MapFile{Data: []byte("{{.Open")},
		}
		_, err := NewRenderer(fs).Render("bad.tmpl", nil)
		if err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestRenderStringIndent(t *testing.T) {
	t.Parallel()

	out, err := RenderString("inline", "* {{indent 2 .}}", "line one\nline two")
	if err != nil {
		t.Fatalf("RenderString error: %v", err)
	}
	if want := "* line one\n  line two"; string(out) != want {
		t.Errorf("RenderString = %q, want %q", out, want)
	}
}
