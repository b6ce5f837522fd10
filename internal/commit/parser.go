package commit

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultHeaderPattern matches an optional leading emoji and whitespace,
// then type, optional (scope), optional "!" and ": " before the subject.
// Whitespace includes the non-breaking space some editors insert.
const DefaultHeaderPattern = `^(?:[\x{1F300}-\x{1F6FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}][\s\x{00A0}])?(\w*)(?:\((.*)\))?!?:[\s\x{00A0}](.*)$`

// DefaultHeaderCorrespondence names the capture groups of DefaultHeaderPattern.
var DefaultHeaderCorrespondence = []string{"type", "scope", "subject"}

// DefaultNoteKeywords are the footer keywords that mark a breaking change.
var DefaultNoteKeywords = []string{"BREAKING CHANGE", "BREAKING CHANGES"}

// emojiTable covers the pictograph ranges accepted before a header.
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1},
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F300, Hi: 0x1F6FF, Stride: 1},
	},
}

// Options configures a Parser. Zero values select the defaults.
type Options struct {
	HeaderPattern        string
	HeaderCorrespondence []string
	NoteKeywords         []string
}

// Parser splits commit messages into headers, bodies and notes.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	pattern      *regexp.Regexp
	fields       map[string]int
	noteKeywords []string
	notePattern  *regexp.Regexp
}

var defaultParser = MustNewParser(Options{})

// NewParser compiles a Parser from opts. The header pattern must expose
// a capture group for every name in the header correspondence, and the
// correspondence must name both "type" and "subject".
func NewParser(opts Options) (*Parser, error) {
	pattern := opts.HeaderPattern
	if pattern == "" {
		pattern = DefaultHeaderPattern
	}
	correspondence := opts.HeaderCorrespondence
	if len(correspondence) == 0 {
		correspondence = DefaultHeaderCorrespondence
	}
	keywords := opts.NoteKeywords
	if len(keywords) == 0 {
		keywords = DefaultNoteKeywords
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if re.NumSubexp() < len(correspondence) {
		return nil, fmt.Errorf("%w: pattern has %d groups, correspondence names %d",
			ErrInvalidPattern, re.NumSubexp(), len(correspondence))
	}
	if !slices.Contains(correspondence, "type") || !slices.Contains(correspondence, "subject") {
		return nil, fmt.Errorf("%w: correspondence must name type and subject", ErrInvalidPattern)
	}

	fields := make(map[string]int, len(correspondence))
	for i, name := range correspondence {
		fields[name] = i + 1
	}

	// Longest keyword first so "BREAKING CHANGES" wins over "BREAKING CHANGE".
	sorted := slices.Clone(keywords)
	slices.SortFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	quoted := make([]string, len(sorted))
	for i, k := range sorted {
		quoted[i] = regexp.QuoteMeta(k)
	}
	notePattern := regexp.MustCompile(`^[\s|*]*(` + strings.Join(quoted, "|") + `)[:\s]+(.*)$`)

	return &Parser{
		pattern:      re,
		fields:       fields,
		noteKeywords: keywords,
		notePattern:  notePattern,
	}, nil
}

// MustNewParser is like NewParser but panics on error.
func MustNewParser(opts Options) *Parser {
	p, err := NewParser(opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses a header line with the default grammar.
func Parse(header string) (Header, error) {
	return defaultParser.ParseHeader(header)
}

// ParseMessage parses a full commit message with the default grammar.
func ParseMessage(message string) (Commit, error) {
	return defaultParser.ParseMessage(message)
}

// ParseHeader extracts type, scope and subject from a single header line.
// It returns ErrNoMatch when the line does not follow the grammar.
func (p *Parser) ParseHeader(line string) (Header, error) {
	line = strings.TrimRight(line, "\r\n")
	h := Header{Raw: line}

	loc := p.pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return h, fmt.Errorf("%w: %q", ErrNoMatch, line)
	}

	h.Type = p.group(line, loc, "type")
	h.Scope = p.group(line, loc, "scope")
	h.Subject = p.group(line, loc, "subject")
	h.Breaking = hasBreakingMarker(line, loc, p.fields["subject"])
	h.Emoji = leadingEmoji(line)
	return h, nil
}

// ParseMessage splits message into header, body and notes. When the header
// does not match, the returned Commit has Parsed=false and the error wraps
// ErrNoMatch; Header.Raw and Body are still populated.
func (p *Parser) ParseMessage(message string) (Commit, error) {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.TrimLeft(message, "\n")
	if strings.TrimSpace(message) == "" {
		return Commit{}, ErrEmptyMessage
	}

	headerLine, body, _ := strings.Cut(message, "\n")
	body = strings.Trim(body, "\n")

	c := Commit{Body: body}
	h, err := p.ParseHeader(headerLine)
	c.Header = h
	if err != nil {
		return c, err
	}
	c.Parsed = true
	c.Notes = p.parseNotes(body)
	return c, nil
}

// NoteKeywords returns the keywords recognized as breaking-change notes.
func (p *Parser) NoteKeywords() []string {
	return slices.Clone(p.noteKeywords)
}

// parseNotes collects footer notes. A note's text continues on following
// lines until a blank line or the next note keyword.
func (p *Parser) parseNotes(body string) []Note {
	if body == "" {
		return nil
	}

	var notes []Note
	var current *Note
	for line := range strings.SplitSeq(body, "\n") {
		if m := p.notePattern.FindStringSubmatch(line); m != nil {
			notes = append(notes, Note{Title: m[1], Text: strings.TrimSpace(m[2])})
			current = &notes[len(notes)-1]
			continue
		}
		if current == nil {
			continue
		}
		if strings.TrimSpace(line) == "" {
			current = nil
			continue
		}
		current.Text = strings.TrimSpace(current.Text + "\n" + line)
	}
	return notes
}

// group returns the text captured for the named field, or "".
func (p *Parser) group(line string, loc []int, name string) string {
	idx, ok := p.fields[name]
	if !ok {
		return ""
	}
	start, end := loc[2*idx], loc[2*idx+1]
	if start < 0 {
		return ""
	}
	return line[start:end]
}

// hasBreakingMarker reports whether the text just before the subject
// ends in "!:" followed by whitespace.
func hasBreakingMarker(line string, loc []int, subjectIdx int) bool {
	if subjectIdx == 0 || 2*subjectIdx >= len(loc) {
		return false
	}
	start := loc[2*subjectIdx]
	if start < 0 {
		return false
	}
	prefix := strings.TrimRightFunc(line[:start], unicode.IsSpace)
	return strings.HasSuffix(prefix, "!:")
}

func leadingEmoji(line string) string {
	r, size := utf8.DecodeRuneInString(line)
	if r == utf8.RuneError || !unicode.Is(emojiTable, r) {
		return ""
	}
	next, _ := utf8.DecodeRuneInString(line[size:])
	if !unicode.IsSpace(next) {
		return ""
	}
	return string(r)
}
