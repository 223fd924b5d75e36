package lexer

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// Scanner turns a byte stream into tokens. It reads lazily, one byte of
// lookahead at a time, so it can sit directly on an open file.
type Scanner struct {
	r      *bufio.Reader
	closer io.Closer

	ch     byte // current char under examination
	atEOF  bool // ch is past the end of input
	line   int  // line of ch
	column int  // column of ch
	offset int  // byte offset of ch

	readErr error // first non-EOF read error, reported once as Invalid
	closed  bool
}

// NewScanner creates a scanner over r. If r is an io.Closer, Close closes it.
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{r: bufio.NewReader(r), line: 1, offset: -1}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	s.readChar()
	return s
}

// StringSource scans an in-memory program.
func StringSource(src string) *Scanner {
	return NewScanner(strings.NewReader(src))
}

// Close releases the underlying reader. Calling it twice is harmless.
func (s *Scanner) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// readChar advances to the next byte.
func (s *Scanner) readChar() {
	if s.atEOF {
		return
	}
	if s.ch == '\n' {
		s.line++
		s.column = 0
	}
	b, err := s.r.ReadByte()
	s.offset++
	if err != nil {
		if !errors.Is(err, io.EOF) && s.readErr == nil {
			s.readErr = err
		}
		s.ch = 0
		s.atEOF = true
		s.column++
		return
	}
	s.ch = b
	s.column++
}

// peekChar returns the byte after ch without consuming it.
func (s *Scanner) peekChar() byte {
	if s.atEOF {
		return 0
	}
	b, err := s.r.Peek(1)
	if err != nil {
		return 0
	}
	return b[0]
}

func (s *Scanner) pos() Pos {
	return Pos{Line: s.line, Column: s.column, Offset: s.offset}
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.atEOF {
		switch {
		case isSpace(s.ch):
			s.readChar()
		case s.ch == '/' && s.peekChar() == '/':
			for !s.atEOF && s.ch != '\n' {
				s.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans and returns the next token. At the end of input it returns
// EOF, and keeps returning EOF on further calls.
func (s *Scanner) NextToken() Token {
	s.skipWhitespaceAndComments()
	start := s.pos()

	if s.atEOF {
		if s.readErr != nil {
			err := s.readErr
			s.readErr = nil
			return Token{Kind: Invalid, Text: "read error: " + err.Error(), Pos: start}
		}
		return Token{Kind: EOF, Pos: start}
	}

	switch {
	case isLetter(s.ch) || s.ch == '_':
		text := s.readWhile(isIdentChar)
		kind := LookupIdent(text)
		if kind != Identifier {
			return Token{Kind: kind, Pos: start}
		}
		return Token{Kind: Identifier, Text: text, Pos: start}
	case isDigit(s.ch):
		// Letters glued to the digits stay in the literal so the parser can
		// reject it as malformed instead of splitting it into two tokens.
		text := s.readWhile(isDigit)
		if isIdentChar(s.ch) {
			text += s.readWhile(isIdentChar)
		}
		return Token{Kind: IntLiteral, Text: text, Pos: start}
	}

	ch := s.ch
	s.readChar()
	switch ch {
	case '=':
		return s.either('=', Eq, Assign, start)
	case '!':
		return s.either('=', NotEq, Invalid, start, "!")
	case '<':
		return s.either('=', LessEq, Less, start)
	case '>':
		return s.either('=', GreaterEq, Greater, start)
	case '&':
		return s.either('&', And, Invalid, start, "&")
	case '|':
		return s.either('|', Or, Invalid, start, "|")
	case '+':
		return Token{Kind: Plus, Pos: start}
	case '-':
		return Token{Kind: Minus, Pos: start}
	case '*':
		return Token{Kind: Star, Pos: start}
	case '/':
		return Token{Kind: Slash, Pos: start}
	case '%':
		return Token{Kind: Percent, Pos: start}
	case '(':
		return Token{Kind: LParen, Pos: start}
	case ')':
		return Token{Kind: RParen, Pos: start}
	case '{':
		return Token{Kind: LBrace, Pos: start}
	case '}':
		return Token{Kind: RBrace, Pos: start}
	case ';':
		return Token{Kind: Semicolon, Pos: start}
	}
	return Token{Kind: Invalid, Text: string(ch), Pos: start}
}

// either scans a possibly two-character operator whose first character has
// already been consumed.
func (s *Scanner) either(second byte, two, one Kind, start Pos, text ...string) Token {
	if !s.atEOF && s.ch == second {
		s.readChar()
		return Token{Kind: two, Pos: start}
	}
	tok := Token{Kind: one, Pos: start}
	if len(text) > 0 {
		tok.Text = text[0]
	}
	return tok
}

func (s *Scanner) readWhile(pred func(byte) bool) string {
	var b strings.Builder
	for !s.atEOF && pred(s.ch) {
		b.WriteByte(s.ch)
		s.readChar()
	}
	return b.String()
}

// Tokenize scans src to the end and returns every token including the final
// EOF.
func Tokenize(src string) []Token {
	s := StringSource(src)
	var toks []Token
	for {
		tok := s.NextToken()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
