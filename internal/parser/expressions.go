package parser

import (
	"strconv"

	"github.com/xa-lang/xa/internal/lexer"
)

// =============================================================================
// Expression Parsing (precedence climbing)
//
//	or             := and ( "||" and )*
//	and            := equality ( "&&" equality )*
//	equality       := relational ( ("==" | "!=") relational )*
//	relational     := additive ( ("<=" | "<" | ">=" | ">") additive )*
//	additive       := multiplicative ( ("+" | "-") multiplicative )*
//	multiplicative := primary ( ("*" | "/" | "%") primary )*
//	primary        := identifier | integer
// =============================================================================

// parseExpression parses a full expression and checks what follows it. A
// token that could only continue the expression as an operator, but is not
// one, is reported as an unknown operator; any other token is left for the
// enclosing statement to judge.
func (p *Parser) parseExpression() (Expression, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	switch p.current.Kind {
	case lexer.Identifier, lexer.IntLiteral, lexer.Invalid:
		return nil, p.errorAt(UnknownOperator, lexer.Semicolon)
	}
	return expr, nil
}

func (p *Parser) parseOr() (Expression, error) {
	return p.parseLevel(PrecOr, p.parseAnd)
}

func (p *Parser) parseAnd() (Expression, error) {
	return p.parseLevel(PrecAnd, p.parseEquality)
}

func (p *Parser) parseEquality() (Expression, error) {
	return p.parseLevel(PrecEquality, p.parseRelational)
}

func (p *Parser) parseRelational() (Expression, error) {
	return p.parseLevel(PrecRelational, p.parseAdditive)
}

func (p *Parser) parseAdditive() (Expression, error) {
	return p.parseLevel(PrecAdditive, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (Expression, error) {
	return p.parseLevel(PrecMultiplicative, p.parsePrimary)
}

// parseLevel parses one left-associative precedence level: an operand from
// the next tighter level, then as many `op operand` pairs as there are
// operators of exactly this level. Operators of looser levels end the loop
// and are handled by a caller further up.
func (p *Parser) parseLevel(prec int, operand func() (Expression, error)) (Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := OperatorFor(p.current.Kind)
		if !ok || op.Precedence() != prec {
			return left, nil
		}
		at := p.current.Pos
		p.nextToken() // operator

		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{At: at, Operator: op, Left: left, Right: right}
	}
}

// parsePrimary parses a variable reference or an integer literal.
func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.current

	switch tok.Kind {
	case lexer.Identifier:
		name, err := p.identifierText()
		if err != nil {
			return nil, err
		}
		p.nextToken()
		return &VariableRef{At: tok.Pos, Name: name}, nil

	case lexer.IntLiteral:
		value, err := p.integerValue()
		if err != nil {
			return nil, err
		}
		p.nextToken()
		return &IntegerLiteral{At: tok.Pos, Value: value}, nil

	default:
		return nil, p.unexpected(lexer.IntLiteral)
	}
}

// identifierText validates the current identifier token's text.
func (p *Parser) identifierText() (string, error) {
	text := p.current.Text
	if !validIdentifier(text) {
		return "", p.errorAt(MalformedIdentifier, lexer.Identifier)
	}
	return text, nil
}

// integerValue converts the current literal token to a 32-bit integer.
func (p *Parser) integerValue() (int32, error) {
	text := p.current.Text
	if text == "" || len(text) > lexer.MaxTextLen {
		return 0, p.errorAt(MalformedInteger, lexer.IntLiteral)
	}
	v, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, p.errorAt(MalformedInteger, lexer.IntLiteral)
	}
	return int32(v), nil
}

func validIdentifier(s string) bool {
	if s == "" || len(s) > lexer.MaxTextLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
