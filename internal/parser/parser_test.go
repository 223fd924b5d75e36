package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/vfs"
)

// fakeSource replays a fixed token list and records how it is used.
type fakeSource struct {
	t       *testing.T
	tokens  []lexer.Token
	i       int
	sawEOF  bool
	closes  int
	closeFn func() error
}

func newFakeSource(t *testing.T, src string) *fakeSource {
	return &fakeSource{t: t, tokens: lexer.Tokenize(src)}
}

func (f *fakeSource) NextToken() lexer.Token {
	if f.sawEOF {
		f.t.Errorf("NextToken called after EOF was returned")
	}
	if f.closes > 0 {
		f.t.Errorf("NextToken called after Close")
	}
	if f.i >= len(f.tokens) {
		f.sawEOF = true
		return lexer.Token{Kind: lexer.EOF}
	}
	tok := f.tokens[f.i]
	f.i++
	if tok.Kind == lexer.EOF {
		f.sawEOF = true
	}
	return tok
}

func (f *fakeSource) Close() error {
	f.closes++
	if f.closeFn != nil {
		return f.closeFn()
	}
	return nil
}

func parseOK(t *testing.T, input string) *Program {
	t.Helper()
	prog, err := ParseString(input)
	if err != nil {
		t.Fatalf("ParseString(%q) failed: %v", input, err)
	}
	return prog
}

func TestParseEmptyProgram(t *testing.T) {
	for _, input := range []string{"", "   \n\t", "// only a comment\n"} {
		prog := parseOK(t, input)
		if prog.Body.Len() != 0 {
			t.Errorf("input %q - expected empty program, got %d statements", input, prog.Body.Len())
		}
	}
}

func TestParseAssign(t *testing.T) {
	prog := parseOK(t, "x = 5;")

	if len(prog.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Body.Statements))
	}
	stmt, ok := prog.Body.Statements[0].(*AssignStatement)
	if !ok {
		t.Fatalf("expected *AssignStatement, got %T", prog.Body.Statements[0])
	}
	if stmt.Name != "x" {
		t.Errorf("expected name x, got %q", stmt.Name)
	}
	lit, ok := stmt.Value.(*IntegerLiteral)
	if !ok || lit.Value != 5 {
		t.Errorf("expected literal 5, got %s", stmt.Value)
	}
	if stmt.Pos() != (lexer.Pos{Line: 1, Column: 1, Offset: 0}) {
		t.Errorf("unexpected position %v", stmt.Pos())
	}
}

func TestParseRepeat(t *testing.T) {
	prog := parseOK(t, "x = 0; repeat (10) { x = x + 1; }")

	if len(prog.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Body.Statements))
	}
	rep, ok := prog.Body.Statements[1].(*RepeatStatement)
	if !ok {
		t.Fatalf("expected *RepeatStatement, got %T", prog.Body.Statements[1])
	}
	if rep.Count.String() != "10" {
		t.Errorf("expected count 10, got %s", rep.Count)
	}
	if rep.Body.Len() != 1 {
		t.Fatalf("expected 1 body statement, got %d", rep.Body.Len())
	}
	if got := rep.Body.Statements[0].String(); got != "x = (x + 1);" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestParseIfDefaultsToEmptyElse(t *testing.T) {
	prog := parseOK(t, "if (x == 1) { output 1; }")

	stmt := prog.Body.Statements[0].(*IfStatement)
	if stmt.Else == nil {
		t.Fatal("expected non-nil else block")
	}
	if stmt.Else.Len() != 0 {
		t.Errorf("expected empty else block, got %d statements", stmt.Else.Len())
	}
	if len(stmt.ElseIfs) != 0 {
		t.Errorf("expected no elseif arms, got %d", len(stmt.ElseIfs))
	}
}

func TestParseIfElseIfChain(t *testing.T) {
	input := `
if (x < 0) { output 0; }
elseif (x < 10) { output 1; }
ELSEIF (x < 100) { output 2; }
else { output 3; output 4; }`
	prog := parseOK(t, input)

	stmt, ok := prog.Body.Statements[0].(*IfStatement)
	if !ok {
		t.Fatalf("expected *IfStatement, got %T", prog.Body.Statements[0])
	}
	if len(stmt.ElseIfs) != 2 {
		t.Fatalf("expected 2 elseif arms, got %d", len(stmt.ElseIfs))
	}
	conds := []string{"(x < 10)", "(x < 100)"}
	for i, ei := range stmt.ElseIfs {
		if ei.Condition.String() != conds[i] {
			t.Errorf("elseif[%d] - expected condition %s, got %s", i, conds[i], ei.Condition)
		}
	}
	if stmt.Else.Len() != 2 {
		t.Errorf("expected 2 else statements, got %d", stmt.Else.Len())
	}
}

func TestParseNestedBlocks(t *testing.T) {
	input := `repeat (3) { if (a) { repeat (2) { output a; } } else { } }`
	prog := parseOK(t, input)

	want := "repeat (3) { if (a) { repeat (2) { output a; } } }"
	if got := prog.Body.Statements[0].String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	input := "a = 1 + 2 * 3; if (a > 5 && a != 9) { output a; } elseif (a) { } repeat (a % 4) { a = a - 1; }"
	first := parseOK(t, input).String()
	for i := 0; i < 5; i++ {
		if got := parseOK(t, input).String(); got != first {
			t.Fatalf("run %d - parse differs: %q vs %q", i, got, first)
		}
	}
}

func TestParseUppercaseKeywords(t *testing.T) {
	lower := parseOK(t, "if (a) { output 1; } elseif (b) { } else { repeat (2) { } }").String()
	upper := parseOK(t, "IF (a) { OUTPUT 1; } ELSEIF (b) { } ELSE { REPEAT (2) { } }").String()
	if lower != upper {
		t.Errorf("keyword case changed the tree: %q vs %q", lower, upper)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input    string
		kind     SyntaxErrorKind
		sentinel error
		expected lexer.Kind
		got      lexer.Kind
	}{
		{"x 5;", UnexpectedToken, ErrUnexpectedToken, lexer.Assign, lexer.IntLiteral},
		{"x = 5", UnexpectedToken, ErrUnexpectedToken, lexer.Semicolon, lexer.EOF},
		{"x = 5 )", UnexpectedToken, ErrUnexpectedToken, lexer.Semicolon, lexer.RParen},
		{"x = ;", UnexpectedToken, ErrUnexpectedToken, lexer.IntLiteral, lexer.Semicolon},
		{"5 = x;", UnexpectedToken, ErrUnexpectedToken, lexer.Identifier, lexer.IntLiteral},
		{"if x { }", UnexpectedToken, ErrUnexpectedToken, lexer.LParen, lexer.Identifier},
		{"if (x) output x;", UnexpectedToken, ErrUnexpectedToken, lexer.LBrace, lexer.Output},
		{"if (x) { output x;", UnexpectedToken, ErrUnexpectedToken, lexer.RBrace, lexer.EOF},
		{"repeat (3 { }", UnexpectedToken, ErrUnexpectedToken, lexer.RParen, lexer.LBrace},
		{"else { }", UnexpectedToken, ErrUnexpectedToken, lexer.Identifier, lexer.Else},
		{"}", UnexpectedToken, ErrUnexpectedToken, lexer.Identifier, lexer.RBrace},
		{"x = (1);", UnexpectedToken, ErrUnexpectedToken, lexer.IntLiteral, lexer.LParen},
		{"x = 1 +;", UnexpectedToken, ErrUnexpectedToken, lexer.IntLiteral, lexer.Semicolon},
		{"a_very_long_variable_name = 1;", MalformedIdentifier, ErrMalformedIdentifier, lexer.Identifier, lexer.Identifier},
		{"x = a_very_long_variable_name;", MalformedIdentifier, ErrMalformedIdentifier, lexer.Identifier, lexer.Identifier},
		{"x = 12abc;", MalformedInteger, ErrMalformedInteger, lexer.IntLiteral, lexer.IntLiteral},
		{"x = 2147483648;", MalformedInteger, ErrMalformedInteger, lexer.IntLiteral, lexer.IntLiteral},
		{"x = 123456789012345678901;", MalformedInteger, ErrMalformedInteger, lexer.IntLiteral, lexer.IntLiteral},
		{"x = 1 ! 2;", UnknownOperator, ErrUnknownOperator, lexer.Semicolon, lexer.Invalid},
		{"x = a & b;", UnknownOperator, ErrUnknownOperator, lexer.Semicolon, lexer.Invalid},
		{"output a b;", UnknownOperator, ErrUnknownOperator, lexer.Semicolon, lexer.Identifier},
		{"if (a 1) { }", UnknownOperator, ErrUnknownOperator, lexer.Semicolon, lexer.IntLiteral},
		{"x = 1 # 2;", UnknownOperator, ErrUnknownOperator, lexer.Semicolon, lexer.Invalid},
	}

	for i, tt := range tests {
		_, err := ParseString(tt.input)
		if err == nil {
			t.Errorf("tests[%d] - expected error for %q, got nil", i, tt.input)
			continue
		}
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("tests[%d] - expected *SyntaxError, got %T (%v)", i, err, err)
			continue
		}
		if se.Kind != tt.kind {
			t.Errorf("tests[%d] - kind wrong. expected=%d, got=%d (%v)", i, tt.kind, se.Kind, err)
		}
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("tests[%d] - expected errors.Is(%v), got %v", i, tt.sentinel, err)
		}
		if tt.kind == UnexpectedToken && se.Expected != tt.expected {
			t.Errorf("tests[%d] - expected kind wrong. expected=%s, got=%s", i, tt.expected, se.Expected)
		}
		if se.Got != tt.got {
			t.Errorf("tests[%d] - got kind wrong. expected=%s, got=%s", i, tt.got, se.Got)
		}
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := ParseString("x = 1;\ny 2;")
	if err == nil {
		t.Fatal("expected error")
	}
	want := "2:3: syntax error: expected '=', got integer literal \"2\""
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}

	var se *SyntaxError
	errors.As(err, &se)
	if se.Incomplete() {
		t.Error("error in the middle of input should not be incomplete")
	}

	_, err = ParseString("repeat (2) {")
	if !errors.As(err, &se) || !se.Incomplete() {
		t.Errorf("expected incomplete syntax error, got %v", err)
	}
}

func TestParseStopsAtEOF(t *testing.T) {
	inputs := []string{
		"",
		"x = 1;",
		"x = 1",
		"if (x) {",
		"repeat (",
		"output a &&",
	}
	for _, input := range inputs {
		src := newFakeSource(t, input)
		p := NewParser(src, "")
		p.ParseProgram()
		if p.TokensRead() > len(src.tokens) {
			t.Errorf("input %q - read %d tokens, source has %d", input, p.TokensRead(), len(src.tokens))
		}
	}
}

func TestParseDoesNotCloseCallerSource(t *testing.T) {
	src := newFakeSource(t, "x = 1;")
	if _, err := Parse(src); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if src.closes != 0 {
		t.Errorf("Parse closed a caller-owned source %d times", src.closes)
	}
}

func TestParseFileClosesOnce(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"x = 1; output x;", false},
		{"x = ;", true},
		{"if (x) {", true},
		{"x = 99999999999;", true},
	}

	for i, tt := range tests {
		src := newFakeSource(t, tt.input)
		opener := lexer.OpenerFunc(func(name string) (lexer.TokenSource, error) {
			return src, nil
		})

		_, err := ParseFile(opener, "prog.xa")
		if (err != nil) != tt.wantErr {
			t.Errorf("tests[%d] - error mismatch. wantErr=%v, got=%v", i, tt.wantErr, err)
		}
		if src.closes != 1 {
			t.Errorf("tests[%d] - expected exactly one Close, got %d", i, src.closes)
		}
		var se *SyntaxError
		if errors.As(err, &se) && se.File != "prog.xa" {
			t.Errorf("tests[%d] - expected file name in error, got %q", i, se.File)
		}
	}
}

func TestParseFileCloseError(t *testing.T) {
	boom := errors.New("boom")
	src := newFakeSource(t, "output 1;")
	src.closeFn = func() error { return boom }

	prog, err := ParseFile(lexer.OpenerFunc(func(string) (lexer.TokenSource, error) {
		return src, nil
	}), "prog.xa")
	if !errors.Is(err, boom) {
		t.Errorf("expected close error, got %v", err)
	}
	if prog != nil {
		t.Error("expected nil program when close fails")
	}
	if src.closes != 1 {
		t.Errorf("expected exactly one Close, got %d", src.closes)
	}
}

func TestParseFileSourceNotFound(t *testing.T) {
	fsys := vfs.NewMem()
	_, err := ParseFile(lexer.NewFileOpener(fsys), "missing.xa")
	if !errors.Is(err, lexer.ErrSourceNotFound) {
		t.Fatalf("expected ErrSourceNotFound, got %v", err)
	}
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Name != "missing.xa" {
		t.Errorf("expected *SourceError for missing.xa, got %v", err)
	}

	_, err = ParseFile(lexer.OpenerFunc(func(string) (lexer.TokenSource, error) {
		return nil, errors.New("permission denied")
	}), "locked.xa")
	if !errors.Is(err, lexer.ErrSourceNotFound) {
		t.Errorf("expected opener failure to wrap ErrSourceNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Errorf("expected underlying cause in message, got %q", err.Error())
	}
}

func TestParseFileFromFS(t *testing.T) {
	fsys := vfs.NewMem()
	if err := fsys.WriteFile("count.xa", []byte("n = 0;\nrepeat (3) { n = n + 1; }\noutput n;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	prog, err := ParseFile(lexer.NewFileOpener(fsys), "count.xa")
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if prog.Body.Len() != 3 {
		t.Errorf("expected 3 statements, got %d", prog.Body.Len())
	}
}
