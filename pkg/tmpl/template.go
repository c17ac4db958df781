// Package tmpl implements the placeholder substitution engine used by the
// generator.
//
// A template is plain text with two marker forms:
//
//	{{ name }}   substitute, the value is passed through the configured escaper
//	{{{ name }}} raw, the value is inserted verbatim
//
// The Mustache ampersand form {{& name}} is an alias for raw. There are no
// sections, partials or comments. Values are looked up by exact name and are
// never re-parsed.
package tmpl

import (
	"strings"
)

type Mode int

const (
	ModeSubstitute Mode = iota
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	default:
		return "substitute"
	}
}

// Placeholder is a single marker reference inside a template.
type Placeholder struct {
	Name string
	Mode Mode
	Pos  Position
}

// Segment is either a literal run or a placeholder reference.
type Segment struct {
	Literal     string
	Placeholder *Placeholder
}

func (s Segment) IsPlaceholder() bool {
	return s.Placeholder != nil
}

// Template is a parsed template. It is immutable and safe for concurrent use.
type Template struct {
	name     string
	source   string
	segments []Segment
	keys     []string
	literals int
}

func (t *Template) Name() string {
	return t.name
}

func (t *Template) Source() string {
	return t.source
}

// Segments returns a copy of the parsed segments in template order.
func (t *Template) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	for i, s := range t.segments {
		out[i] = s
		if s.Placeholder != nil {
			p := *s.Placeholder
			out[i].Placeholder = &p
		}
	}
	return out
}

// Placeholders returns every marker reference in template order,
// repeated names included.
func (t *Template) Placeholders() []Placeholder {
	var out []Placeholder
	for _, s := range t.segments {
		if s.Placeholder != nil {
			out = append(out, *s.Placeholder)
		}
	}
	return out
}

// Keys returns the distinct placeholder names in order of first appearance.
func (t *Template) Keys() []string {
	return append([]string(nil), t.keys...)
}

func (t *Template) String() string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.Placeholder == nil {
			b.WriteString(s.Literal)
			continue
		}
		if s.Placeholder.Mode == ModeRaw {
			b.WriteString("{{{" + s.Placeholder.Name + "}}}")
		} else {
			b.WriteString("{{" + s.Placeholder.Name + "}}")
		}
	}
	return b.String()
}
