// Package format renders xa programs: canonical source, structured AST
// dumps and line diffs between a file and its formatted form.
package format

import (
	"errors"
	"strings"

	"github.com/xa-lang/xa/internal/parser"
)

// ErrComments is returned by Source for input with comments unless
// PrintOptions.DropComments is set.
var ErrComments = errors.New("source contains comments, which formatting would drop")

// Source parses text and returns it in canonical form.
func Source(text string, opts PrintOptions) (string, error) {
	// The scanner treats every "//" as a comment start.
	if !opts.DropComments && strings.Contains(text, "//") {
		return "", ErrComments
	}

	prog, err := parser.ParseString(text)
	if err != nil {
		return "", err
	}

	out := Print(prog, opts)
	if opts.KeepCRLF && strings.Contains(text, "\r\n") {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out, nil
}

// Changed reports whether text differs from its canonical form. Syntax errors
// are returned as is.
func Changed(text string, opts PrintOptions) (bool, string, error) {
	formatted, err := Source(text, opts)
	if err != nil {
		return false, "", err
	}
	return formatted != text, formatted, nil
}
