package parser

import (
	"errors"
	"fmt"

	"github.com/xa-lang/xa/internal/lexer"
)

// Parser represents the recursive descent parser. It holds the single token
// lookahead; there is no backtracking and no error recovery.
type Parser struct {
	src      lexer.TokenSource
	current  lexer.Token
	filename string
	reads    int
}

// NewParser creates a parser reading from src. The first token is read
// immediately.
func NewParser(src lexer.TokenSource, filename string) *Parser {
	p := &Parser{src: src, filename: filename}
	p.current = p.src.NextToken()
	p.reads++
	return p
}

// Parse parses a whole program from src. The caller owns src and must close
// it.
func Parse(src lexer.TokenSource) (*Program, error) {
	return NewParser(src, "").ParseProgram()
}

// ParseString parses program text held in memory.
func ParseString(text string) (*Program, error) {
	src := lexer.StringSource(text)
	defer src.Close()
	return Parse(src)
}

// ParseFile opens name through o, parses it and releases the token source
// exactly once, whether parsing succeeds or fails.
func ParseFile(o lexer.Opener, name string) (prog *Program, err error) {
	src, err := o.Open(name)
	if err != nil || src == nil {
		if err == nil {
			err = lexer.ErrSourceNotFound
		} else if !errors.Is(err, lexer.ErrSourceNotFound) {
			err = fmt.Errorf("%w: %w", lexer.ErrSourceNotFound, err)
		}
		return nil, &SourceError{Name: name, Err: err}
	}
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			prog, err = nil, fmt.Errorf("closing %s: %w", name, cerr)
		}
	}()

	return NewParser(src, name).ParseProgram()
}

// TokensRead returns how many tokens the parser pulled from its source.
func (p *Parser) TokensRead() int { return p.reads }

// nextToken advances the parser to the next token. It never reads past EOF.
func (p *Parser) nextToken() {
	if p.current.Kind == lexer.EOF {
		return
	}
	p.current = p.src.NextToken()
	p.reads++
}

// currentTokenIs checks if the current token is of the given kind
func (p *Parser) currentTokenIs(k lexer.Kind) bool {
	return p.current.Kind == k
}

// expect consumes the current token if it has the expected kind
func (p *Parser) expect(k lexer.Kind) error {
	if !p.currentTokenIs(k) {
		return p.unexpected(k)
	}
	p.nextToken()
	return nil
}

func (p *Parser) unexpected(expected lexer.Kind) *SyntaxError {
	return p.errorAt(UnexpectedToken, expected)
}

func (p *Parser) errorAt(kind SyntaxErrorKind, expected lexer.Kind) *SyntaxError {
	return &SyntaxError{
		Kind:     kind,
		File:     p.filename,
		Pos:      p.current.Pos,
		Expected: expected,
		Got:      p.current.Kind,
		Text:     p.current.Text,
	}
}

// ====== Grammar Rules ======

// ParseProgram parses statements up to and including the EOF token.
func (p *Parser) ParseProgram() (*Program, error) {
	body := &Block{Start: p.current.Pos}

	for !p.currentTokenIs(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body.Statements = append(body.Statements, stmt)
	}

	return &Program{Body: body}, nil
}

// parseBlock parses `{ statement* }`.
func (p *Parser) parseBlock() (*Block, error) {
	block := &Block{Start: p.current.Pos}
	if err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	for !p.currentTokenIs(lexer.RBrace) {
		if p.currentTokenIs(lexer.EOF) {
			return nil, p.unexpected(lexer.RBrace)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	if err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return block, nil
}

// parseStatement dispatches on the leading token.
func (p *Parser) parseStatement() (Statement, error) {
	switch p.current.Kind {
	case lexer.Identifier:
		return p.parseAssign()
	case lexer.If:
		return p.parseIf()
	case lexer.Repeat:
		return p.parseRepeat()
	case lexer.Output:
		return p.parseOutput()
	default:
		// Any statement may start here; an identifier is the most general.
		return nil, p.unexpected(lexer.Identifier)
	}
}

// parseAssign parses `identifier = expression ;`.
func (p *Parser) parseAssign() (Statement, error) {
	at := p.current.Pos
	name, err := p.identifierText()
	if err != nil {
		return nil, err
	}
	p.nextToken()

	if err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	return &AssignStatement{At: at, Name: name, Value: value}, nil
}

// parseCondition parses `( expression )`.
func (p *Parser) parseCondition() (Expression, error) {
	if err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseIf parses `if (c) {..} (elseif (c) {..})* (else {..})?`.
func (p *Parser) parseIf() (Statement, error) {
	stmt := &IfStatement{At: p.current.Pos}
	p.nextToken() // if

	var err error
	if stmt.Condition, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}

	for p.currentTokenIs(lexer.ElseIf) {
		clause := ElseIfClause{At: p.current.Pos}
		p.nextToken()

		if clause.Condition, err = p.parseCondition(); err != nil {
			return nil, err
		}
		if clause.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		stmt.ElseIfs = append(stmt.ElseIfs, clause)
	}

	if p.currentTokenIs(lexer.Else) {
		p.nextToken()
		if stmt.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	} else {
		stmt.Else = &Block{Start: p.current.Pos}
	}

	return stmt, nil
}

// parseRepeat parses `repeat (count) { block }`.
func (p *Parser) parseRepeat() (Statement, error) {
	stmt := &RepeatStatement{At: p.current.Pos}
	p.nextToken() // repeat

	var err error
	if stmt.Count, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if stmt.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseOutput parses `output expression ;`.
func (p *Parser) parseOutput() (Statement, error) {
	at := p.current.Pos
	p.nextToken() // output

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &OutputStatement{At: at, Value: value}, nil
}
