package commit

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   Header
	}{
		{
			name:   "type scope subject",
			header: "feat(parser): add support for x",
			want:   Header{Type: "feat", Scope: "parser", Subject: "add support for x"},
		},
		{
			name:   "breaking marker without scope",
			header: "fix!: critical bug",
			want:   Header{Type: "fix", Subject: "critical bug", Breaking: true},
		},
		{
			name:   "breaking marker with scope",
			header: "refactor(api)!: drop v1 endpoints",
			want:   Header{Type: "refactor", Scope: "api", Subject: "drop v1 endpoints", Breaking: true},
		},
		{
			name:   "leading emoji",
			header: "✨ feat: sparkle",
			want:   Header{Type: "feat", Subject: "sparkle", Emoji: "✨"},
		},
		{
			name:   "leading pictograph",
			header: "\U0001F41B fix(io): close reader",
			want:   Header{Type: "fix", Scope: "io", Subject: "close reader", Emoji: "\U0001F41B"},
		},
		{
			name:   "empty type is accepted by the grammar",
			header: ": orphan subject",
			want:   Header{Subject: "orphan subject"},
		},
		{
			name:   "non-breaking space after emoji and colon",
			header: "✨\u00a0feat(ui)!:\u00a0sparkle",
			want:   Header{Type: "feat", Scope: "ui", Subject: "sparkle", Breaking: true, Emoji: "✨"},
		},
		{
			name:   "trailing carriage return",
			header: "docs: readme\r",
			want:   Header{Type: "docs", Subject: "readme"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.header)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.header, err)
			}
			got.Raw = ""
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.header, diff)
			}
		})
	}
}

func TestParseHeaderNoMatch(t *testing.T) {
	t.Parallel()

	headers := []string{
		"not a conventional commit",
		"feat:missing space",
		"feat add thing",
		"",
		"✨feat: emoji without space",
	}

	for _, h := range headers {
		got, err := Parse(h)
		if !errors.Is(err, ErrNoMatch) {
			t.Errorf("Parse(%q) error = %v, want ErrNoMatch", h, err)
		}
		if got.Type != "" || got.Subject != "" {
			t.Errorf("Parse(%q) extracted fields from a non-matching header: %+v", h, got)
		}
		if got.Raw != h {
			t.Errorf("Parse(%q).Raw = %q", h, got.Raw)
		}
	}
}

func TestParseMessageNotes(t *testing.T) {
	t.Parallel()

	msg := "feat(cli): new flags\n\nAdds --profile.\n\nBREAKING CHANGE: --config was removed\nuse --profile instead\n\nBREAKING CHANGES: exit codes changed\n"

	c, err := ParseMessage(msg)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if !c.Parsed {
		t.Fatal("ParseMessage() Parsed = false")
	}

	want := []Note{
		{Title: "BREAKING CHANGE", Text: "--config was removed\nuse --profile instead"},
		{Title: "BREAKING CHANGES", Text: "exit codes changed"},
	}
	if diff := cmp.Diff(want, c.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if !c.IsBreaking() {
		t.Error("IsBreaking() = false, want true")
	}
}

func TestParseMessageUnparsed(t *testing.T) {
	t.Parallel()

	c, err := ParseMessage("Merge branch 'main'\n\nBREAKING CHANGE: ignored")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("ParseMessage() error = %v, want ErrNoMatch", err)
	}
	if c.Parsed {
		t.Error("Parsed = true for non-matching header")
	}
	if c.Header.Raw != "Merge branch 'main'" {
		t.Errorf("Header.Raw = %q", c.Header.Raw)
	}
	if c.IsBreaking() {
		t.Error("unparsed commit must not be breaking")
	}
}

func TestParseMessageEmpty(t *testing.T) {
	t.Parallel()

	if _, err := ParseMessage("\n\n  "); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("ParseMessage(blank) error = %v, want ErrEmptyMessage", err)
	}
}

func TestNewParserCustomPattern(t *testing.T) {
	t.Parallel()

	p, err := NewParser(Options{
		HeaderPattern:        `^\[(\w+)\] (.*)$`,
		HeaderCorrespondence: []string{"type", "subject"},
		NoteKeywords:         []string{"INCOMPATIBLE"},
	})
	if err != nil {
		t.Fatalf("NewParser() error = %v", err)
	}

	c, err := p.ParseMessage("[fix] tidy output\n\nINCOMPATIBLE: new format")
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}
	if c.Header.Type != "fix" || c.Header.Subject != "tidy output" || c.Header.Scope != "" {
		t.Errorf("header = %+v", c.Header)
	}
	if len(c.Notes) != 1 || c.Notes[0].Title != "INCOMPATIBLE" {
		t.Errorf("notes = %+v", c.Notes)
	}
}

func TestNewParserInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{"bad regexp", Options{HeaderPattern: `^(\w+`}},
		{"too few groups", Options{HeaderPattern: `^(\w+): .*$`}},
		{"no subject field", Options{HeaderPattern: `^(\w+)(.*)$`, HeaderCorrespondence: []string{"type", "scope"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewParser(tt.opts); !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("NewParser() error = %v, want ErrInvalidPattern", err)
			}
		})
	}
}
