package parser

import (
	"errors"
	"fmt"

	"github.com/xa-lang/xa/internal/lexer"
)

// Sentinel errors matched with errors.Is.
var (
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrMalformedIdentifier = errors.New("malformed identifier")
	ErrMalformedInteger    = errors.New("malformed integer literal")
	ErrUnknownOperator     = errors.New("unknown operator")
)

// SyntaxErrorKind classifies a SyntaxError.
type SyntaxErrorKind int

const (
	UnexpectedToken SyntaxErrorKind = iota
	MalformedIdentifier
	MalformedInteger
	UnknownOperator
)

func (k SyntaxErrorKind) sentinel() error {
	switch k {
	case MalformedIdentifier:
		return ErrMalformedIdentifier
	case MalformedInteger:
		return ErrMalformedInteger
	case UnknownOperator:
		return ErrUnknownOperator
	default:
		return ErrUnexpectedToken
	}
}

// SyntaxError represents a parsing error with context. Parsing stops at the
// first one.
type SyntaxError struct {
	Kind     SyntaxErrorKind
	File     string
	Pos      lexer.Pos
	Expected lexer.Kind // meaningful for UnexpectedToken only
	Got      lexer.Kind
	Text     string // offending token text, when it has one
}

func (e *SyntaxError) Error() string {
	var msg string
	switch e.Kind {
	case UnexpectedToken:
		msg = fmt.Sprintf("expected %s, got %s", e.Expected.Describe(), describeGot(e.Got, e.Text))
	case MalformedIdentifier:
		msg = fmt.Sprintf("malformed identifier %q", e.Text)
	case MalformedInteger:
		msg = fmt.Sprintf("malformed integer literal %q", e.Text)
	case UnknownOperator:
		msg = fmt.Sprintf("unknown operator %s", describeGot(e.Got, e.Text))
	}
	return fmt.Sprintf("%s: syntax error: %s", e.Location(), msg)
}

// Location renders file:line:col, omitting what is unknown.
func (e *SyntaxError) Location() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s", e.File, e.Pos)
	}
	return e.Pos.String()
}

func (e *SyntaxError) Unwrap() error { return e.Kind.sentinel() }

// Incomplete reports whether the input ended before the construct being
// parsed was finished.
func (e *SyntaxError) Incomplete() bool { return e.Got == lexer.EOF }

func describeGot(k lexer.Kind, text string) string {
	if text != "" && (k == lexer.Identifier || k == lexer.IntLiteral || k == lexer.Invalid) {
		return fmt.Sprintf("%s %q", k.Describe(), text)
	}
	return k.Describe()
}

// SourceError reports that the program could not be opened. It wraps the
// opener's error, which itself wraps lexer.ErrSourceNotFound.
type SourceError struct {
	Name string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("cannot open %s: %v", e.Name, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }
