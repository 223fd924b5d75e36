package interpreter

import (
	"context"
	"fmt"
	"math"

	"github.com/xa-lang/xa/internal/parser"
)

// execution is the state of one run: the store it mutates and the output it
// appends to.
type execution struct {
	ctx        context.Context
	in         *Interpreter
	store      *Store
	out        []int32
	iterations int64
}

func (ex *execution) fail(e *RuntimeError) error {
	e.File = ex.in.file
	return e
}

func (ex *execution) tracef(format string, args ...interface{}) {
	if ex.in.trace != nil {
		ex.in.trace(format, args...)
	}
}

// ====== Statements ======

func (ex *execution) block(b *parser.Block) error {
	if b == nil {
		return nil
	}
	for _, stmt := range b.Statements {
		if err := ex.statement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ex *execution) statement(stmt parser.Statement) error {
	switch s := stmt.(type) {
	case *parser.AssignStatement:
		v, err := ex.eval(s.Value)
		if err != nil {
			return err
		}
		ex.tracef("%s: %s = %d", s.Pos(), s.Name, v)
		ex.store.Set(s.Name, v)
		return nil

	case *parser.IfStatement:
		return ex.ifStatement(s)

	case *parser.RepeatStatement:
		return ex.repeat(s)

	case *parser.OutputStatement:
		v, err := ex.eval(s.Value)
		if err != nil {
			return err
		}
		ex.tracef("%s: output %d", s.Pos(), v)
		ex.out = append(ex.out, v)
		return nil
	}
	panic(fmt.Sprintf("interpreter: unexpected statement %T", stmt))
}

func (ex *execution) ifStatement(s *parser.IfStatement) error {
	cond, err := ex.eval(s.Condition)
	if err != nil {
		return err
	}
	if cond != 0 {
		ex.tracef("%s: if taken", s.Pos())
		return ex.block(s.Body)
	}

	for i, arm := range s.ElseIfs {
		cond, err := ex.eval(arm.Condition)
		if err != nil {
			return err
		}
		if cond != 0 {
			ex.tracef("%s: elseif #%d taken", arm.At, i+1)
			return ex.block(arm.Body)
		}
	}

	ex.tracef("%s: else taken", s.Pos())
	return ex.block(s.Else)
}

func (ex *execution) repeat(s *parser.RepeatStatement) error {
	count, err := ex.eval(s.Count)
	if err != nil {
		return err
	}
	if count < 0 {
		return ex.fail(&RuntimeError{Kind: NegativeRepeat, Pos: s.Pos(), Count: int64(count)})
	}
	ex.tracef("%s: repeat %d", s.Pos(), count)

	for i := int32(0); i < count; i++ {
		if i > 0 {
			if err := ex.ctx.Err(); err != nil {
				return err
			}
		}
		if limit := ex.in.maxIterations; limit > 0 && ex.iterations >= limit {
			return ex.fail(&RuntimeError{Kind: IterationLimit, Pos: s.Pos(), Count: limit})
		}
		ex.iterations++

		if err := ex.block(s.Body); err != nil {
			return err
		}
	}
	return nil
}

// ====== Expressions ======

func (ex *execution) eval(expr parser.Expression) (int32, error) {
	switch e := expr.(type) {
	case *parser.IntegerLiteral:
		return e.Value, nil

	case *parser.VariableRef:
		v, ok := ex.store.Get(e.Name)
		if !ok {
			return 0, ex.fail(&RuntimeError{Kind: Uninitialized, Pos: e.Pos(), Name: e.Name})
		}
		return v, nil

	case *parser.BinaryExpression:
		// Both sides are always evaluated, left first, even for && and ||.
		left, err := ex.eval(e.Left)
		if err != nil {
			return 0, err
		}
		right, err := ex.eval(e.Right)
		if err != nil {
			return 0, err
		}
		v, kind, ok := Apply(e.Operator, left, right)
		if !ok {
			return 0, ex.fail(&RuntimeError{
				Kind:     kind,
				Pos:      e.At,
				Operator: e.Operator,
				Left:     left,
				Right:    right,
			})
		}
		return v, nil
	}
	panic(fmt.Sprintf("interpreter: unexpected expression %T", expr))
}

// Apply combines two operand values. When ok is false, kind tells why the
// operation has no result.
func Apply(op parser.Operator, l, r int32) (v int32, kind RuntimeErrorKind, ok bool) {
	a, b := int64(l), int64(r)

	switch op {
	case parser.Add:
		return checked(a + b)
	case parser.Sub:
		return checked(a - b)
	case parser.Multiply:
		return checked(a * b)
	case parser.Divide:
		if b == 0 {
			return 0, DivisionByZero, false
		}
		return checked(a / b)
	case parser.Remainder:
		if b == 0 {
			return 0, DivisionByZero, false
		}
		return int32(a % b), 0, true
	case parser.And:
		return truth(l != 0 && r != 0), 0, true
	case parser.Or:
		return truth(l != 0 || r != 0), 0, true
	case parser.Equal:
		return truth(l == r), 0, true
	case parser.NotEqual:
		return truth(l != r), 0, true
	case parser.Less:
		return truth(l < r), 0, true
	case parser.LessEqual:
		return truth(l <= r), 0, true
	case parser.Greater:
		return truth(l > r), 0, true
	case parser.GreaterEqual:
		return truth(l >= r), 0, true
	}
	return 0, UnimplementedOperator, false
}

func checked(v int64) (int32, RuntimeErrorKind, bool) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, Overflow, false
	}
	return int32(v), 0, true
}

func truth(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
