package tmpl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Segments(t *testing.T) {
	tpl, err := Parse("{{{ header }}}\npackage {{packageQualifiedName}};")
	require.NoError(t, err)

	segments := tpl.Segments()
	require.Len(t, segments, 4)

	assert.True(t, segments[0].IsPlaceholder())
	assert.Equal(t, "header", segments[0].Placeholder.Name)
	assert.Equal(t, ModeRaw, segments[0].Placeholder.Mode)
	assert.Equal(t, "\npackage ", segments[1].Literal)
	assert.Equal(t, "packageQualifiedName", segments[2].Placeholder.Name)
	assert.Equal(t, ModeSubstitute, segments[2].Placeholder.Mode)
	assert.Equal(t, ";", segments[3].Literal)
}

func TestParse_NoPlaceholders(t *testing.T) {
	for _, text := range []string{"", "plain text", "a }} b", "func() { return }", "{ {x} }"} {
		tpl, err := Parse(text)
		require.NoError(t, err, text)
		assert.Empty(t, tpl.Keys())
		assert.Equal(t, text, tpl.String())
	}
}

func TestParse_Keys(t *testing.T) {
	tpl, err := Parse("{{a}} {{ b }} {{a}} {{{c}}}")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tpl.Keys())
	assert.Len(t, tpl.Placeholders(), 4)
}

func TestParse_Ampersand(t *testing.T) {
	tpl, err := Parse("{{& fileComment }}")
	require.NoError(t, err)

	ps := tpl.Placeholders()
	require.Len(t, ps, 1)
	assert.Equal(t, "fileComment", ps[0].Name)
	assert.Equal(t, ModeRaw, ps[0].Mode)
}

func TestParse_Position(t *testing.T) {
	tpl, err := Parse("line1\n  {{x}}\nä{{y}}")
	require.NoError(t, err)

	ps := tpl.Placeholders()
	require.Len(t, ps, 2)
	assert.Equal(t, Position{Offset: 8, Line: 2, Column: 3}, ps[0].Pos)
	assert.Equal(t, 2, ps[1].Pos.Column)
	assert.Equal(t, 3, ps[1].Pos.Line)
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		kind   error
		offset int
	}{
		{"nested open", "{{a{{b}}}}", ErrMalformedPlaceholder, 3},
		{"nested raw", "{{{{a}}}}", ErrMalformedPlaceholder, 3},
		{"stray close", "{{a}b}}", ErrMalformedPlaceholder, 3},
		{"empty", "x {{ }}", ErrMalformedPlaceholder, 2},
		{"section", "{{#items}}", ErrMalformedPlaceholder, 0},
		{"comment", "{{! note }}", ErrMalformedPlaceholder, 0},
		{"unterminated", "Hello {{name", ErrUnterminatedPlaceholder, 6},
		{"half closed", "{{a}", ErrUnterminatedPlaceholder, 0},
		{"raw half closed", "{{{a}}", ErrUnterminatedPlaceholder, 0},
		{"bare open", "tail {{", ErrUnterminatedPlaceholder, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.kind), err.Error())

			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, c.offset, syntaxErr.Pos.Offset)
		})
	}
}

func TestParse_ErrorMessage(t *testing.T) {
	_, err := ParseNamed("controller.java.tpl", "{{a{{b}}}}")
	require.Error(t, err)
	assert.Equal(t, "controller.java.tpl:1:4: malformed placeholder: nested '{' inside marker", err.Error())

	_, err = Parse("{{a")
	require.Error(t, err)
	assert.Equal(t, "<inline>:1:1: unterminated placeholder: missing }}", err.Error())
}

func TestParse_Deterministic(t *testing.T) {
	text := "{{{h}}}\nclass {{n}} extends {{base}}<{{n}}, {{pk}}> {}"
	a, err := Parse(text)
	require.NoError(t, err)
	b, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, a.Segments(), b.Segments())
	assert.Equal(t, text, a.Source())
}

func TestTemplate_SegmentsAreCopies(t *testing.T) {
	tpl := MustParse("t", "{{a}}")
	segments := tpl.Segments()
	segments[0].Placeholder.Name = "changed"

	assert.Equal(t, []string{"a"}, tpl.Keys())
	assert.Equal(t, "a", tpl.Segments()[0].Placeholder.Name)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustParse("bad", "{{")
	})
}
