package tmpl

import (
	"strings"
	"unicode/utf8"
)

const (
	openDelim       = "{{"
	closeDelim      = "}}"
	rawOpenDelim    = "{{{"
	rawCloseDelim   = "}}}"
	ampersandSigil  = '&'
	forbiddenSigils = "#^/!>="
)

// Parse parses an anonymous template.
func Parse(text string) (*Template, error) {
	return ParseNamed("", text)
}

// ParseNamed parses text into a Template. The name is only used in
// diagnostics.
func ParseNamed(name, text string) (*Template, error) {
	p := &parser{name: name, src: text, line: 1}
	return p.parse()
}

// MustParse is like ParseNamed but panics on error. It is meant for
// templates compiled into the binary.
func MustParse(name, text string) *Template {
	t, err := ParseNamed(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	name string
	src  string

	// incremental line tracking, see position
	scanned   int
	line      int
	lineStart int

	segments []Segment
	keys     []string
	seen     map[string]struct{}
	literals int
}

func (p *parser) parse() (*Template, error) {
	p.seen = map[string]struct{}{}

	litStart := 0
	i := 0
	for i < len(p.src) {
		if !strings.HasPrefix(p.src[i:], openDelim) {
			i++
			continue
		}
		p.literal(p.src[litStart:i])

		next, err := p.placeholder(i)
		if err != nil {
			return nil, err
		}
		i = next
		litStart = i
	}
	p.literal(p.src[litStart:])

	return &Template{
		name:     p.name,
		source:   p.src,
		segments: p.segments,
		keys:     p.keys,
		literals: p.literals,
	}, nil
}

func (p *parser) literal(s string) {
	if s == "" {
		return
	}
	p.segments = append(p.segments, Segment{Literal: s})
	p.literals += len(s)
}

// placeholder scans the marker opening at offset open and returns the
// offset right after its closing delimiter.
func (p *parser) placeholder(open int) (int, error) {
	mode, closer, body := ModeSubstitute, closeDelim, open+len(openDelim)
	if strings.HasPrefix(p.src[open:], rawOpenDelim) {
		mode, closer, body = ModeRaw, rawCloseDelim, open+len(rawOpenDelim)
	}

	end := body
scan:
	for {
		if end >= len(p.src) {
			return 0, p.syntaxError(ErrUnterminatedPlaceholder, open, "", "missing "+closer)
		}
		switch p.src[end] {
		case '{':
			return 0, p.syntaxError(ErrMalformedPlaceholder, end, "", "nested '{' inside marker")
		case '}':
			if strings.HasPrefix(p.src[end:], closer) {
				break scan
			}
			if strings.Trim(p.src[end:], "}") == "" {
				return 0, p.syntaxError(ErrUnterminatedPlaceholder, open, "", "missing "+closer)
			}
			return 0, p.syntaxError(ErrMalformedPlaceholder, end, "", "unexpected '}' inside marker")
		}
		end++
	}

	name := strings.TrimSpace(p.src[body:end])
	if mode == ModeSubstitute && name != "" && name[0] == ampersandSigil {
		mode = ModeRaw
		name = strings.TrimSpace(name[1:])
	}
	if name == "" {
		return 0, p.syntaxError(ErrMalformedPlaceholder, open, "", "empty name")
	}
	if strings.IndexByte(forbiddenSigils, name[0]) >= 0 {
		return 0, p.syntaxError(ErrMalformedPlaceholder, open, name, "sections, partials and comments are not supported")
	}

	p.segments = append(p.segments, Segment{Placeholder: &Placeholder{
		Name: name,
		Mode: mode,
		Pos:  p.position(open),
	}})
	if _, ok := p.seen[name]; !ok {
		p.seen[name] = struct{}{}
		p.keys = append(p.keys, name)
	}

	return end + len(closer), nil
}

func (p *parser) syntaxError(kind error, offset int, name, detail string) error {
	return &SyntaxError{
		Kind:     kind,
		Template: p.name,
		Name:     name,
		Pos:      p.position(offset),
		Detail:   detail,
	}
}

// position converts a byte offset to a Position. Offsets must be
// non-decreasing between calls except for error reporting, which falls back
// to a full rescan.
func (p *parser) position(offset int) Position {
	if offset < p.scanned {
		p.scanned, p.line, p.lineStart = 0, 1, 0
	}
	for i := p.scanned; i < offset; i++ {
		if p.src[i] == '\n' {
			p.line++
			p.lineStart = i + 1
		}
	}
	p.scanned = offset
	return Position{
		Offset: offset,
		Line:   p.line,
		Column: utf8.RuneCountInString(p.src[p.lineStart:offset]) + 1,
	}
}
