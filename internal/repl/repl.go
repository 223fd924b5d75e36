// Package repl implements the interactive xa shell. Each complete input is
// parsed and executed against one interpreter session, so variables persist
// from one line to the next.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/xa-lang/xa/internal/cli"
	"github.com/xa-lang/xa/internal/format"
	"github.com/xa-lang/xa/internal/interpreter"
	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/parser"
	"github.com/xa-lang/xa/internal/vfs"
)

const (
	promptMain = "xa> "
	promptCont = "... "
)

const helpText = `Enter xa statements; output values are printed one per line.
Commands:
  :vars         list assigned variables
  :reset        forget every variable
  :load FILE    run FILE in this session
  :tree CODE    print the syntax tree of CODE
  :help         show this help
  :quit         leave the shell
`

// REPL evaluates inputs against a persistent session.
type REPL struct {
	Session *interpreter.Session
	FS      vfs.FileSystem
	Out     io.Writer
	Diag    *cli.Diagnostics
}

// New creates a shell printing values to out and errors through diag.
func New(in *interpreter.Interpreter, fsys vfs.FileSystem, out io.Writer, diag *cli.Diagnostics) *REPL {
	if in == nil {
		in = interpreter.New()
	}
	if fsys == nil {
		fsys = vfs.NewOS()
	}
	return &REPL{Session: in.NewSession(), FS: fsys, Out: out, Diag: diag}
}

// NeedsMore reports whether input stops in the middle of a statement, in
// which case the shell keeps reading lines.
func NeedsMore(input string) bool {
	_, err := parser.ParseString(input)
	var se *parser.SyntaxError
	return errors.As(err, &se) && se.Incomplete()
}

// Eval handles one complete input. It returns false once the user asks to
// quit.
func (r *REPL) Eval(ctx context.Context, input string) bool {
	line := strings.TrimSpace(input)
	if line == "" {
		return true
	}
	if strings.HasPrefix(line, ":") {
		return r.command(ctx, line)
	}

	prog, err := parser.ParseString(input)
	if err != nil {
		r.Diag.Error(err)
		return true
	}
	r.exec(ctx, prog)
	return true
}

func (r *REPL) exec(ctx context.Context, prog *parser.Program) {
	out, err := r.Session.ExecContext(ctx, prog)
	if err != nil {
		r.Diag.Error(err)
		return
	}
	for _, v := range out {
		fmt.Fprintln(r.Out, v)
	}
}

func (r *REPL) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		io.WriteString(r.Out, helpText)
	case ":vars":
		vars := r.Session.Vars()
		if len(vars) == 0 {
			fmt.Fprintln(r.Out, "(no variables)")
		}
		for _, v := range vars {
			fmt.Fprintf(r.Out, "%s = %d\n", v.Name, v.Value)
		}
	case ":reset":
		r.Session.Reset()
	case ":load":
		if arg == "" {
			r.Diag.Error(errors.New(":load needs a file name"))
			break
		}
		prog, err := parser.ParseFile(lexer.NewFileOpener(r.FS), arg)
		if err != nil {
			r.Diag.Error(err)
			break
		}
		r.exec(ctx, prog)
	case ":tree":
		prog, err := parser.ParseString(arg)
		if err != nil {
			r.Diag.Error(err)
			break
		}
		fmt.Fprint(r.Out, format.Tree(prog).Text())
	default:
		r.Diag.Error(fmt.Errorf("unknown command %s, type :help for a list", name))
	}
	return true
}

// Run reads inputs from the terminal until :quit, end of input or ctx is
// done. History is loaded from and saved to historyPath when it is set.
func (r *REPL) Run(ctx context.Context, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(r.Out, "xa %s, type :help for commands\n", cli.Version)
	for ctx.Err() == nil {
		input, err := read(ln)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.Out)
			return nil
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))
		}
		if !r.Eval(ctx, input) {
			return nil
		}
	}
	return ctx.Err()
}

// read collects lines until they form a complete input.
func read(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || !NeedsMore(src) {
			return src, nil
		}
	}
}
