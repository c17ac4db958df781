package tmpl

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPlaceholder    = errors.New("malformed placeholder")
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	ErrMissingKey              = errors.New("missing key")
)

// Position locates a marker inside template text.
// Offset is a 0-based byte offset, Line and Column are 1-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError is returned by Parse. Kind is either ErrMalformedPlaceholder
// or ErrUnterminatedPlaceholder.
type SyntaxError struct {
	Kind     error
	Template string
	Name     string
	Pos      Position
	Detail   string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("%s:%s: %s", templateLabel(e.Template), e.Pos, e.Kind)
	if e.Name != "" {
		msg += fmt.Sprintf(" %q", e.Name)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Kind
}

// MissingKeyError is returned by Render when a placeholder name has no
// entry in the context.
type MissingKeyError struct {
	Template string
	Name     string
	Pos      Position
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s:%s: %s %q", templateLabel(e.Template), e.Pos, ErrMissingKey, e.Name)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}

func templateLabel(name string) string {
	if name == "" {
		return "<inline>"
	}
	return name
}
