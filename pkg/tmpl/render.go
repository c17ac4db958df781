package tmpl

import (
	"html"
	"io"
	"strings"
)

// Escaper transforms substitute-mode values before insertion.
type Escaper func(string) string

// HTMLEscaper escapes values for markup targets.
var HTMLEscaper Escaper = html.EscapeString

type renderOptions struct {
	escaper Escaper
}

type Option func(o *renderOptions)

// WithEscaper sets the escaper applied to {{ }} values. {{{ }}} values are
// never escaped. The default leaves values untouched since the generator
// targets source code.
func WithEscaper(e Escaper) Option {
	return func(o *renderOptions) {
		o.escaper = e
	}
}

// Render substitutes every placeholder with its context value. On the first
// missing key it returns a *MissingKeyError and no output.
func (t *Template) Render(ctx Context, opts ...Option) (string, error) {
	o := renderOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	var b strings.Builder
	b.Grow(t.literals + 16*len(t.keys))
	for _, s := range t.segments {
		if s.Placeholder == nil {
			b.WriteString(s.Literal)
			continue
		}
		value, ok := ctx[s.Placeholder.Name]
		if !ok {
			return "", &MissingKeyError{
				Template: t.name,
				Name:     s.Placeholder.Name,
				Pos:      s.Placeholder.Pos,
			}
		}
		if s.Placeholder.Mode == ModeSubstitute && o.escaper != nil {
			value = o.escaper(value)
		}
		b.WriteString(value)
	}
	return b.String(), nil
}

// Execute renders into memory and writes to w only when rendering succeeds.
func (t *Template) Execute(w io.Writer, ctx Context, opts ...Option) error {
	out, err := t.Render(ctx, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Missing returns the distinct keys the context lacks, in order of first
// appearance. It is empty when Render would succeed.
func (t *Template) Missing(ctx Context) []string {
	var missing []string
	for _, key := range t.keys {
		if _, ok := ctx[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Render parses text and renders it in one step.
func Render(name, text string, ctx Context, opts ...Option) (string, error) {
	t, err := ParseNamed(name, text)
	if err != nil {
		return "", err
	}
	return t.Render(ctx, opts...)
}
