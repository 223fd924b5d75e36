package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/runner"
	"github.com/xa-lang/xa/internal/vfs"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		watch         bool
		maxIterations int64
	)

	cmd := &cobra.Command{
		Use:   "run FILE...",
		Short: "Run xa programs and print their output",
		Long: `Run parses and runs each program and prints every output value on its
own line. With several files each output is preceded by a "==> name <=="
header. A file named "-" is read from standard input. With --watch the
program is run again whenever it changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := runner.New(a.fs, a.logger)
			r.MaxIterations = a.config.Run.MaxIterations
			if cmd.Flags().Changed("max-iterations") {
				r.MaxIterations = maxIterations
			}
			if r.MaxIterations < 0 {
				return fmt.Errorf("--max-iterations must not be negative, got %d", r.MaxIterations)
			}

			args = a.stdinArgs(r, args)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if watch {
				if len(args) != 1 {
					return errors.New("--watch takes exactly one file")
				}
				if args[0] == stdinName {
					return errors.New("--watch cannot follow standard input")
				}
				return a.watch(ctx, r, args[0])
			}

			results, err := r.RunFiles(ctx, args)
			if err != nil {
				return err
			}
			for i, res := range results {
				if len(results) > 1 {
					if i > 0 {
						fmt.Fprintln(a.stdout)
					}
					fmt.Fprintln(a.stdout, a.diag.Header(res.Name))
				}
				a.printOutput(res)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "run again whenever the file changes")
	cmd.Flags().Int64Var(&maxIterations, "max-iterations", 0, "fail after this many repeat iterations (0 = unlimited)")
	return cmd
}

const stdinName = "<stdin>"

// stdinArgs renames "-" to stdinName and has r read that name from a.stdin.
func (a *app) stdinArgs(r *runner.Runner, args []string) []string {
	out := make([]string, len(args))
	found := false
	for i, name := range args {
		if name == "-" {
			name, found = stdinName, true
		}
		out[i] = name
	}
	if !found {
		return out
	}
	files := lexer.NewFileOpener(a.fs)
	r.Opener = lexer.OpenerFunc(func(name string) (lexer.TokenSource, error) {
		if name == stdinName {
			return lexer.NewScanner(io.NopCloser(a.stdin)), nil
		}
		return files.Open(name)
	})
	return out
}

func (a *app) printOutput(res *runner.Result) {
	for _, v := range res.Output {
		fmt.Fprintln(a.stdout, v)
	}
}

func (a *app) watch(ctx context.Context, r *runner.Runner, name string) error {
	w, err := vfs.NewFSWatcher()
	if err != nil {
		return fmt.Errorf("starting file watcher: %w", err)
	}
	defer w.Close()

	first := true
	err = r.Watch(ctx, name, w, a.config.Run.WatchDebounce, func(res *runner.Result, err error) {
		if !first {
			fmt.Fprintln(a.stdout)
		}
		first = false
		if err != nil {
			a.report(err)
			return
		}
		fmt.Fprintln(a.stdout, a.diag.Header(res.Name))
		a.printOutput(res)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
