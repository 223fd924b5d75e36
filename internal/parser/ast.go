// Package parser implements the xa language parser and AST definitions
package parser

import (
	"fmt"
	"strings"

	"github.com/xa-lang/xa/internal/lexer"
)

// Node represents the base interface for all AST nodes
type Node interface {
	// Pos returns the source position of the node's first token
	Pos() lexer.Pos
	// String returns a canonical single-line rendering of the node
	String() string
}

// Statement represents all statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents all expression nodes
type Expression interface {
	Node
	expressionNode()
}

// ====== Program Structure ======

// Program represents the root of the AST
type Program struct {
	Body *Block
}

func (p *Program) Pos() lexer.Pos { return p.Body.Pos() }
func (p *Program) String() string { return p.Body.statementsString() }

// Block is an ordered statement sequence owned by its parent construct.
type Block struct {
	Start      lexer.Pos
	Statements []Statement
}

func (b *Block) Pos() lexer.Pos { return b.Start }
func (b *Block) String() string { return "{ " + b.statementsString() + "}" }

func (b *Block) statementsString() string {
	var sb strings.Builder
	for _, s := range b.Statements {
		sb.WriteString(s.String())
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Len returns the number of statements; a nil block is empty.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Statements)
}

// ====== Statements ======

// AssignStatement stores the value of an expression under a name.
type AssignStatement struct {
	At    lexer.Pos
	Name  string
	Value Expression
}

func (a *AssignStatement) Pos() lexer.Pos { return a.At }
func (a *AssignStatement) String() string { return fmt.Sprintf("%s = %s;", a.Name, a.Value) }
func (a *AssignStatement) statementNode() {}

// ElseIfClause is one `elseif (cond) { body }` arm of an if statement.
type ElseIfClause struct {
	At        lexer.Pos
	Condition Expression
	Body      *Block
}

// IfStatement is an if with zero or more elseif arms. Else is never nil; it
// is an empty block when the source has no else arm.
type IfStatement struct {
	At        lexer.Pos
	Condition Expression
	Body      *Block
	ElseIfs   []ElseIfClause
	Else      *Block
}

func (i *IfStatement) Pos() lexer.Pos { return i.At }
func (i *IfStatement) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if (%s) %s", i.Condition, i.Body)
	for _, ei := range i.ElseIfs {
		fmt.Fprintf(&sb, " elseif (%s) %s", ei.Condition, ei.Body)
	}
	if i.Else.Len() > 0 {
		fmt.Fprintf(&sb, " else %s", i.Else)
	}
	return sb.String()
}
func (i *IfStatement) statementNode() {}

// RepeatStatement runs Body Count times.
type RepeatStatement struct {
	At    lexer.Pos
	Count Expression
	Body  *Block
}

func (r *RepeatStatement) Pos() lexer.Pos { return r.At }
func (r *RepeatStatement) String() string { return fmt.Sprintf("repeat (%s) %s", r.Count, r.Body) }
func (r *RepeatStatement) statementNode() {}

// OutputStatement appends the value of an expression to the program output.
type OutputStatement struct {
	At    lexer.Pos
	Value Expression
}

func (o *OutputStatement) Pos() lexer.Pos { return o.At }
func (o *OutputStatement) String() string { return fmt.Sprintf("output %s;", o.Value) }
func (o *OutputStatement) statementNode() {}

// ====== Expressions ======

// IntegerLiteral is a signed 32-bit constant.
type IntegerLiteral struct {
	At    lexer.Pos
	Value int32
}

func (l *IntegerLiteral) Pos() lexer.Pos  { return l.At }
func (l *IntegerLiteral) String() string  { return fmt.Sprintf("%d", l.Value) }
func (l *IntegerLiteral) expressionNode() {}

// VariableRef reads a variable from the store.
type VariableRef struct {
	At   lexer.Pos
	Name string
}

func (v *VariableRef) Pos() lexer.Pos  { return v.At }
func (v *VariableRef) String() string  { return v.Name }
func (v *VariableRef) expressionNode() {}

// BinaryExpression applies Operator to two exclusively owned operands.
type BinaryExpression struct {
	At       lexer.Pos // position of the operator token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) Pos() lexer.Pos { return b.Left.Pos() }
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}
func (b *BinaryExpression) expressionNode() {}

// ====== Operators ======

// Operator is a binary operator.
type Operator int

const (
	Add Operator = iota
	Sub
	Multiply
	Divide
	Remainder
	And
	Or
	Equal
	NotEqual
	LessEqual
	Less
	GreaterEqual
	Greater
)

// Precedence levels, lowest binding first.
const (
	PrecOr = iota + 1
	PrecAnd
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
)

type operatorInfo struct {
	name   string
	symbol string
	token  lexer.Kind
	prec   int
}

var operators = [...]operatorInfo{
	Add:          {"Add", "+", lexer.Plus, PrecAdditive},
	Sub:          {"Sub", "-", lexer.Minus, PrecAdditive},
	Multiply:     {"Multiply", "*", lexer.Star, PrecMultiplicative},
	Divide:       {"Divide", "/", lexer.Slash, PrecMultiplicative},
	Remainder:    {"Remainder", "%", lexer.Percent, PrecMultiplicative},
	And:          {"And", "&&", lexer.And, PrecAnd},
	Or:           {"Or", "||", lexer.Or, PrecOr},
	Equal:        {"Equal", "==", lexer.Eq, PrecEquality},
	NotEqual:     {"NotEqual", "!=", lexer.NotEq, PrecEquality},
	LessEqual:    {"LessEqual", "<=", lexer.LessEq, PrecRelational},
	Less:         {"Less", "<", lexer.Less, PrecRelational},
	GreaterEqual: {"GreaterEqual", ">=", lexer.GreaterEq, PrecRelational},
	Greater:      {"Greater", ">", lexer.Greater, PrecRelational},
}

// Valid reports whether op is one of the declared operators.
func (op Operator) Valid() bool { return op >= 0 && int(op) < len(operators) }

// String returns the source symbol of the operator.
func (op Operator) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operators[op].symbol
}

// Name returns the operator's identifier-style name, e.g. "GreaterEqual".
func (op Operator) Name() string {
	if !op.Valid() {
		return op.String()
	}
	return operators[op].name
}

// Precedence returns the binding level of op (higher binds tighter).
func (op Operator) Precedence() int {
	if !op.Valid() {
		return 0
	}
	return operators[op].prec
}

// OperatorFor maps an operator token kind to its Operator.
func OperatorFor(k lexer.Kind) (Operator, bool) {
	for op, info := range operators {
		if info.token == k {
			return Operator(op), true
		}
	}
	return 0, false
}
