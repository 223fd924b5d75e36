// Package interpreter executes xa programs by walking the AST against a
// variable store, producing the program's output sequence.
package interpreter

import (
	"context"

	"github.com/xa-lang/xa/internal/parser"
)

// TraceFunc receives one line per executed statement.
type TraceFunc func(format string, args ...interface{})

// Interpreter holds evaluation settings. It has no per-run state and may be
// shared by concurrent runs.
type Interpreter struct {
	maxIterations int64
	trace         TraceFunc
	file          string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxIterations bounds the total number of repeat iterations of one run.
// Zero means unlimited.
func WithMaxIterations(n int64) Option {
	return func(in *Interpreter) { in.maxIterations = n }
}

// WithTrace installs a statement tracer, typically a logger's Debug method.
func WithTrace(fn TraceFunc) Option {
	return func(in *Interpreter) { in.trace = fn }
}

// WithFile sets the file name reported in runtime errors.
func WithFile(name string) Option {
	return func(in *Interpreter) { in.file = name }
}

// New creates an interpreter.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run executes p against a fresh store and returns its output.
func Run(p *parser.Program) ([]int32, error) {
	return New().Run(p)
}

// RunContext is Run with cancellation between repeat iterations.
func RunContext(ctx context.Context, p *parser.Program) ([]int32, error) {
	return New().RunContext(ctx, p)
}

// Run executes p against a fresh store. On failure no output is returned.
func (in *Interpreter) Run(p *parser.Program) ([]int32, error) {
	return in.RunContext(context.Background(), p)
}

// RunContext executes p against a fresh store, stopping with ctx.Err() if
// ctx is done between repeat iterations.
func (in *Interpreter) RunContext(ctx context.Context, p *parser.Program) ([]int32, error) {
	return in.NewSession().ExecContext(ctx, p)
}

// Session is an interpreter whose store outlives a single program, so that
// later programs see variables assigned by earlier ones.
type Session struct {
	in    *Interpreter
	store *Store
}

// NewSession starts a session with an empty store.
func (in *Interpreter) NewSession() *Session {
	return &Session{in: in, store: NewStore()}
}

// Exec runs p against the session store and returns the output of this call
// only. Assignments made before a failure stay in the store.
func (s *Session) Exec(p *parser.Program) ([]int32, error) {
	return s.ExecContext(context.Background(), p)
}

// ExecContext is Exec with cancellation.
func (s *Session) ExecContext(ctx context.Context, p *parser.Program) ([]int32, error) {
	ex := &execution{
		ctx:   ctx,
		in:    s.in,
		store: s.store,
		out:   []int32{},
	}
	if p != nil {
		if err := ex.block(p.Body); err != nil {
			return nil, err
		}
	}
	return ex.out, nil
}

// Vars returns the session's variables sorted by name.
func (s *Session) Vars() []Var { return s.store.Snapshot() }

// Reset discards every variable.
func (s *Session) Reset() { s.store = NewStore() }
