package format

import (
	"strings"

	"github.com/xa-lang/xa/internal/parser"
)

// PrintOptions controls AST-based formatting
type PrintOptions struct {
	// IndentSize specifies the number of spaces for indentation
	IndentSize int
	// PreferTabs uses tabs instead of spaces for indentation
	PreferTabs bool
	// KeepCRLF emits CRLF line endings when the input used them (Source only)
	KeepCRLF bool
	// DropComments lets Source format files containing comments, which the
	// parser discards
	DropComments bool
}

// DefaultPrintOptions returns default AST formatting options
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		IndentSize: 4,
		KeepCRLF:   true,
	}
}

// Printer renders an AST back to canonical xa source.
type Printer struct {
	options PrintOptions
	indent  int
	buffer  strings.Builder
}

// NewPrinter creates a new printer with the given options
func NewPrinter(options PrintOptions) *Printer {
	if options.IndentSize <= 0 {
		options.IndentSize = 4
	}
	return &Printer{options: options}
}

// Print renders p as canonical source: one statement per line, lowercase
// keywords, spaces around binary operators, elseif and else on the line of
// the preceding closing brace. Parsing the result yields the same tree.
func Print(p *parser.Program, options PrintOptions) string {
	return NewPrinter(options).Print(p)
}

// Print renders p. The printer may be reused.
func (f *Printer) Print(p *parser.Program) string {
	f.buffer.Reset()
	f.indent = 0

	if p != nil && p.Body != nil {
		for _, stmt := range p.Body.Statements {
			f.statement(stmt)
		}
	}

	return f.buffer.String()
}

func (f *Printer) statement(stmt parser.Statement) {
	f.writeIndent()

	switch s := stmt.(type) {
	case *parser.AssignStatement:
		f.writeString(s.Name + " = ")
		f.expression(s.Value)
		f.writeString(";")

	case *parser.OutputStatement:
		f.writeString("output ")
		f.expression(s.Value)
		f.writeString(";")

	case *parser.RepeatStatement:
		f.writeString("repeat (")
		f.expression(s.Count)
		f.writeString(") ")
		f.block(s.Body)

	case *parser.IfStatement:
		f.writeString("if (")
		f.expression(s.Condition)
		f.writeString(") ")
		f.block(s.Body)
		for _, arm := range s.ElseIfs {
			f.writeString(" elseif (")
			f.expression(arm.Condition)
			f.writeString(") ")
			f.block(arm.Body)
		}
		if s.Else.Len() > 0 {
			f.writeString(" else ")
			f.block(s.Else)
		}
	}

	f.writeNewline()
}

// block writes `{`, the indented statements and `}` without a trailing
// newline. An empty block prints as `{}`.
func (f *Printer) block(b *parser.Block) {
	if b.Len() == 0 {
		f.writeString("{}")
		return
	}

	f.writeString("{")
	f.writeNewline()
	f.indent++
	for _, stmt := range b.Statements {
		f.statement(stmt)
	}
	f.indent--
	f.writeIndent()
	f.writeString("}")
}

// expression writes e without parentheses; the tree shape produced by the
// parser is recovered from precedence and left associativity alone.
func (f *Printer) expression(e parser.Expression) {
	switch x := e.(type) {
	case *parser.IntegerLiteral:
		f.writeString(x.String())
	case *parser.VariableRef:
		f.writeString(x.Name)
	case *parser.BinaryExpression:
		f.expression(x.Left)
		f.writeString(" " + x.Operator.String() + " ")
		f.expression(x.Right)
	}
}

// Writing helper functions
func (f *Printer) writeString(s string) {
	f.buffer.WriteString(s)
}

func (f *Printer) writeNewline() {
	f.buffer.WriteString("\n")
}

func (f *Printer) writeIndent() {
	if f.options.PreferTabs {
		f.buffer.WriteString(strings.Repeat("\t", f.indent))
	} else {
		f.buffer.WriteString(strings.Repeat(" ", f.indent*f.options.IndentSize))
	}
}
