package interpreter

import (
	"errors"
	"fmt"

	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/parser"
)

// Sentinel errors matched with errors.Is.
var (
	ErrUninitialized         = errors.New("uninitialized variable")
	ErrNegativeRepeat        = errors.New("negative repeat count")
	ErrUnimplementedOperator = errors.New("unimplemented operator")
	ErrOverflow              = errors.New("integer overflow")
	ErrDivisionByZero        = errors.New("division by zero")
	ErrIterationLimit        = errors.New("iteration limit exceeded")
)

// RuntimeErrorKind classifies a RuntimeError.
type RuntimeErrorKind int

const (
	Uninitialized RuntimeErrorKind = iota
	NegativeRepeat
	UnimplementedOperator
	Overflow
	DivisionByZero
	IterationLimit
)

var kindSentinels = [...]error{
	Uninitialized:         ErrUninitialized,
	NegativeRepeat:        ErrNegativeRepeat,
	UnimplementedOperator: ErrUnimplementedOperator,
	Overflow:              ErrOverflow,
	DivisionByZero:        ErrDivisionByZero,
	IterationLimit:        ErrIterationLimit,
}

// RuntimeError is a terminal evaluation failure. Only the fields relevant to
// Kind are set.
type RuntimeError struct {
	Kind     RuntimeErrorKind
	File     string
	Pos      lexer.Pos
	Name     string          // Uninitialized
	Operator parser.Operator // UnimplementedOperator, Overflow, DivisionByZero
	Left     int32           // Overflow
	Right    int32           // Overflow
	Count    int64           // NegativeRepeat, IterationLimit
}

func (e *RuntimeError) Error() string {
	var msg string
	switch e.Kind {
	case Uninitialized:
		msg = fmt.Sprintf("variable %q has not been assigned", e.Name)
	case NegativeRepeat:
		msg = fmt.Sprintf("repeat count %d is negative", e.Count)
	case UnimplementedOperator:
		msg = fmt.Sprintf("operator %s is not implemented", e.Operator)
	case Overflow:
		msg = fmt.Sprintf("integer overflow in %d %s %d", e.Left, e.Operator, e.Right)
	case DivisionByZero:
		msg = fmt.Sprintf("division by zero in '%s'", e.Operator)
	case IterationLimit:
		msg = fmt.Sprintf("more than %d repeat iterations", e.Count)
	default:
		msg = "unknown failure"
	}
	return fmt.Sprintf("%s: runtime error: %s", e.Location(), msg)
}

// Location renders file:line:col, omitting what is unknown.
func (e *RuntimeError) Location() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s", e.File, e.Pos)
	}
	return e.Pos.String()
}

func (e *RuntimeError) Unwrap() error {
	if int(e.Kind) < len(kindSentinels) {
		return kindSentinels[e.Kind]
	}
	return nil
}
