// Package runner drives the xa pipeline for whole files: open the token
// source, parse, release the source, evaluate. It also runs batches of files
// concurrently and re-runs a file whenever it changes.
package runner

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/xa-lang/xa/internal/cli"
	"github.com/xa-lang/xa/internal/interpreter"
	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/parser"
	"github.com/xa-lang/xa/internal/vfs"
)

// Result is the outcome of one successful run.
type Result struct {
	Name    string
	RunID   uuid.UUID
	Output  []int32
	Elapsed time.Duration
}

// Runner runs xa programs read from a file system. Opener, when set,
// replaces opening files from FS. Concurrency bounds RunFiles; zero means
// GOMAXPROCS.
type Runner struct {
	FS            vfs.FileSystem
	Opener        lexer.Opener
	Logger        *cli.Logger
	MaxIterations int64
	Concurrency   int

	sf singleflight.Group
}

// New creates a runner over fsys (the OS when nil).
func New(fsys vfs.FileSystem, logger *cli.Logger) *Runner {
	if fsys == nil {
		fsys = vfs.NewOS()
	}
	return &Runner{FS: fsys, Logger: logger}
}

var defaultLogger = cli.NewLogger(false, false)

func (r *Runner) logger() *cli.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return defaultLogger
}

func (r *Runner) opener() lexer.Opener {
	if r.Opener != nil {
		return r.Opener
	}
	return lexer.NewFileOpener(r.FS)
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// RunFile parses and runs one file. The token source is closed before
// evaluation starts.
func (r *Runner) RunFile(ctx context.Context, name string) (*Result, error) {
	id := uuid.New()
	log := r.logger().WithField("run", id.String()[:8])
	start := time.Now()

	log.Info("running %s", name)

	prog, err := parser.ParseFile(r.opener(), name)
	if err != nil {
		log.Debug("parse failed: %v", err)
		return nil, err
	}
	log.Debug("parsed %s: %d top-level statements", name, prog.Body.Len())

	opts := []interpreter.Option{
		interpreter.WithFile(name),
		interpreter.WithMaxIterations(r.MaxIterations),
	}
	if log.Enabled(cli.LevelDebug) {
		opts = append(opts, interpreter.WithTrace(log.Debug))
	}

	out, err := interpreter.New(opts...).RunContext(ctx, prog)
	if err != nil {
		log.Debug("run failed: %v", err)
		return nil, err
	}

	res := &Result{Name: name, RunID: id, Output: out, Elapsed: time.Since(start)}
	log.Info("finished %s: %d values in %s", name, len(out), res.Elapsed)
	return res, nil
}
