package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/xa-lang/xa/internal/vfs"
)

func TestBasicTokens(t *testing.T) {
	input := `x = 0;
repeat (10) { x = x + 1; }
output x;`

	tests := []struct {
		expectedKind Kind
		expectedText string
	}{
		{Identifier, "x"},
		{Assign, ""},
		{IntLiteral, "0"},
		{Semicolon, ""},
		{Repeat, ""},
		{LParen, ""},
		{IntLiteral, "10"},
		{RParen, ""},
		{LBrace, ""},
		{Identifier, "x"},
		{Assign, ""},
		{Identifier, "x"},
		{Plus, ""},
		{IntLiteral, "1"},
		{Semicolon, ""},
		{RBrace, ""},
		{Output, ""},
		{Identifier, "x"},
		{Semicolon, ""},
		{EOF, ""},
	}

	s := StringSource(input)

	for i, tt := range tests {
		tok := s.NextToken()

		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.expectedKind, tok.Kind)
		}

		if tok.Text != tt.expectedText {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.expectedText, tok.Text)
		}
	}
}

func TestKeywordsBothCases(t *testing.T) {
	input := `ELSE hello = == IF ELSEIF if elseif else repeat REPEAT output OUTPUT Output`

	expected := []Kind{
		Else, Identifier, Assign, Eq, If, ElseIf, If, ElseIf, Else,
		Repeat, Repeat, Output, Output, Identifier, EOF,
	}

	s := StringSource(input)
	for i, want := range expected {
		if got := s.NextToken().Kind; got != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, want, got)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % && || == != <= < >= > = ( ) { } ;`
	expected := []Kind{
		Plus, Minus, Star, Slash, Percent, And, Or, Eq, NotEq,
		LessEq, Less, GreaterEq, Greater, Assign,
		LParen, RParen, LBrace, RBrace, Semicolon, EOF,
	}

	toks := Tokenize(input)
	if len(toks) != len(expected) {
		t.Fatalf("token count = %d, want %d: %v", len(toks), len(expected), toks)
	}
	for i, want := range expected {
		if toks[i].Kind != want {
			t.Errorf("tokens[%d] = %s, want %s", i, toks[i].Kind, want)
		}
	}
}

func TestOperatorsWithoutSpaces(t *testing.T) {
	toks := Tokenize("a<=b&&c!=1")
	want := []Kind{Identifier, LessEq, Identifier, And, Identifier, NotEq, IntLiteral, EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("tokens[%d] = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestInvalidTokens(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"!", "!"},
		{"& x", "&"},
		{"|", "|"},
		{"$", "$"},
		{"#", "#"},
	}

	for _, tt := range tests {
		tok := StringSource(tt.input).NextToken()
		if tok.Kind != Invalid {
			t.Errorf("%q: kind = %s, want INVALID", tt.input, tok.Kind)
		}
		if tok.Text != tt.text {
			t.Errorf("%q: text = %q, want %q", tt.input, tok.Text, tt.text)
		}
	}
}

func TestVariableAndLiteralText(t *testing.T) {
	toks := Tokenize("hello world_2 542 323 12abc")
	want := []struct {
		kind Kind
		text string
	}{
		{Identifier, "hello"},
		{Identifier, "world_2"},
		{IntLiteral, "542"},
		{IntLiteral, "323"},
		{IntLiteral, "12abc"},
		{EOF, ""},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("tokens[%d] = %v, want %s %q", i, toks[i], w.kind, w.text)
		}
	}
}

func TestLongTextIsPreserved(t *testing.T) {
	long := strings.Repeat("a", 25)
	tok := StringSource(long).NextToken()
	if tok.Kind != Identifier || tok.Text != long {
		t.Fatalf("got %v", tok)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	toks := Tokenize("// leading\nx = 1; // trailing\n// end")
	want := []Kind{Identifier, Assign, IntLiteral, Semicolon, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %v", toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Fatalf("tokens[%d] = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestPositions(t *testing.T) {
	toks := Tokenize("x = 1;\n  output x;")
	tests := []struct {
		idx    int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 3},
		{2, 1, 5},
		{3, 1, 6},
		{4, 2, 3},
		{5, 2, 10},
	}
	for _, tt := range tests {
		p := toks[tt.idx].Pos
		if p.Line != tt.line || p.Column != tt.column {
			t.Errorf("tokens[%d] (%s) at %s, want %d:%d", tt.idx, toks[tt.idx].Kind, p, tt.line, tt.column)
		}
	}
}

func TestEOFIsSticky(t *testing.T) {
	s := StringSource("x")
	s.NextToken()
	for i := 0; i < 3; i++ {
		if k := s.NextToken().Kind; k != EOF {
			t.Fatalf("call %d: got %s, want EOF", i, k)
		}
	}
}

func TestFileOpener(t *testing.T) {
	m := vfs.NewMem()
	_ = m.WriteFile("prog.xa", []byte("output 7;"), 0o644)
	o := NewFileOpener(m)

	src, err := o.Open("prog.xa")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()
	if tok := src.NextToken(); tok.Kind != Output {
		t.Fatalf("first token = %v", tok)
	}

	_, err = o.Open("missing.xa")
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
}

func TestKindStrings(t *testing.T) {
	if Semicolon.Describe() != "';'" {
		t.Errorf("Semicolon.Describe() = %s", Semicolon.Describe())
	}
	if Identifier.Describe() != "identifier" {
		t.Errorf("Identifier.Describe() = %s", Identifier.Describe())
	}
	if Kind(99).String() != "UNKNOWN(99)" {
		t.Errorf("Kind(99).String() = %s", Kind(99).String())
	}
}
