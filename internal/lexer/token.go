// Package lexer implements the xa lexical analyzer and the token source
// contract the parser consumes.
package lexer

import "fmt"

// Kind represents the type of a token
type Kind int

// Token kinds
const (
	Identifier Kind = iota
	Assign

	// delimiters
	LBrace
	RBrace
	LParen
	RParen
	Semicolon

	// keywords
	Repeat
	If
	Else
	ElseIf
	Output

	IntLiteral

	// logical operators
	And
	Or

	// arithmetic operators
	Plus
	Minus
	Star
	Slash
	Percent

	// comparison operators
	Eq
	NotEq
	LessEq
	Less
	GreaterEq
	Greater

	EOF
	Invalid
)

var kindNames = [...]string{
	Identifier: "IDENTIFIER",
	Assign:     "ASSIGN",
	LBrace:     "LBRACE",
	RBrace:     "RBRACE",
	LParen:     "LPAREN",
	RParen:     "RPAREN",
	Semicolon:  "SEMICOLON",
	Repeat:     "REPEAT",
	If:         "IF",
	Else:       "ELSE",
	ElseIf:     "ELSEIF",
	Output:     "OUTPUT",
	IntLiteral: "INT_LIT",
	And:        "AND",
	Or:         "OR",
	Plus:       "PLUS",
	Minus:      "MINUS",
	Star:       "STAR",
	Slash:      "SLASH",
	Percent:    "PERCENT",
	Eq:         "EQ",
	NotEq:      "NE",
	LessEq:     "LE",
	Less:       "LT",
	GreaterEq:  "GE",
	Greater:    "GT",
	EOF:        "EOF",
	Invalid:    "INVALID",
}

// String returns a string representation of the token kind
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

var kindSymbols = map[Kind]string{
	Assign:    "=",
	LBrace:    "{",
	RBrace:    "}",
	LParen:    "(",
	RParen:    ")",
	Semicolon: ";",
	Repeat:    "repeat",
	If:        "if",
	Else:      "else",
	ElseIf:    "elseif",
	Output:    "output",
	And:       "&&",
	Or:        "||",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Eq:        "==",
	NotEq:     "!=",
	LessEq:    "<=",
	Less:      "<",
	GreaterEq: ">=",
	Greater:   ">",
}

// Symbol returns the source spelling of fixed tokens ("" for identifiers,
// literals and markers).
func (k Kind) Symbol() string { return kindSymbols[k] }

// Describe names the kind the way diagnostics quote it: 'if', ';', or
// identifier.
func (k Kind) Describe() string {
	if s := k.Symbol(); s != "" {
		return "'" + s + "'"
	}
	switch k {
	case Identifier:
		return "identifier"
	case IntLiteral:
		return "integer literal"
	case EOF:
		return "end of file"
	default:
		return "invalid token"
	}
}

// MaxTextLen bounds the text carried by identifier and integer tokens.
const MaxTextLen = 20

// Pos is a position in the source text.
type Pos struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// IsValid reports whether the position was set.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Token is a lexical token. Text is set for identifiers, integer literals
// and invalid lexemes.
type Token struct {
	Kind Kind
	Text string
	Pos  Pos
}

func (t Token) String() string {
	if t.Text != "" {
		return fmt.Sprintf("%s(%q) at %s", t.Kind, t.Text, t.Pos)
	}
	return fmt.Sprintf("%s at %s", t.Kind, t.Pos)
}

var keywords = map[string]Kind{
	"if":     If,
	"elseif": ElseIf,
	"else":   Else,
	"repeat": Repeat,
	"output": Output,
	"IF":     If,
	"ELSEIF": ElseIf,
	"ELSE":   Else,
	"REPEAT": Repeat,
	"OUTPUT": Output,
}

// LookupIdent returns the keyword kind for ident, or Identifier.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Identifier
}
