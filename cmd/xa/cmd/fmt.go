package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/format"
	"github.com/xa-lang/xa/internal/parser"
	"github.com/xa-lang/xa/internal/vfs"
)

type fmtOptions struct {
	write        bool
	list         bool
	diff         bool
	diffMode     string
	tabs         bool
	dropComments bool
}

func newFmtCommand(a *app) *cobra.Command {
	var opts fmtOptions

	cmd := &cobra.Command{
		Use:   "fmt [FILE...]",
		Short: "Print programs in canonical form",
		Long: `Fmt prints each program in canonical form. Without files, or with "-", it
formats standard input. Sources with comments are refused unless
--drop-comments is given, since the canonical form has no comments.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := format.ParseDiffMode(opts.diffMode)
			if err != nil {
				return err
			}
			dopts := format.DefaultDiffOptions()
			dopts.Mode = mode

			popts := format.DefaultPrintOptions()
			popts.IndentSize = a.config.Output.Indent
			popts.PreferTabs = opts.tabs
			popts.DropComments = opts.dropComments

			if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
				return a.fmtStdin(opts, popts, dopts)
			}

			failed := false
			for _, name := range args {
				if err := a.fmtFile(name, opts, popts, dopts); err != nil {
					a.report(err)
					failed = true
				}
			}
			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write result to (source) file instead of stdout")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list files whose formatting differs")
	cmd.Flags().BoolVarP(&opts.diff, "diff", "d", false, "print a diff instead of the formatted source")
	cmd.Flags().StringVar(&opts.diffMode, "diff-mode", "unified", "diff mode: unified, context or side")
	cmd.Flags().BoolVar(&opts.tabs, "tabs", false, "indent with tabs")
	cmd.Flags().BoolVar(&opts.dropComments, "drop-comments", false, "format sources with comments, removing them")
	return cmd
}

func (a *app) fmtStdin(opts fmtOptions, popts format.PrintOptions, dopts format.DiffOptions) error {
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return err
	}
	text := string(data)

	formatted, diff, err := format.SourceWithDiff(stdinName, text, popts, dopts)
	if err != nil {
		return withFile(err, stdinName)
	}
	switch {
	case opts.diff:
		_, err = io.WriteString(a.stdout, diff)
	case opts.list:
		if formatted != text {
			_, err = fmt.Fprintln(a.stdout, stdinName)
		}
	default:
		_, err = io.WriteString(a.stdout, formatted)
	}
	return err
}

func (a *app) fmtFile(name string, opts fmtOptions, popts format.PrintOptions, dopts format.DiffOptions) error {
	data, err := vfs.ReadFile(a.fs, name)
	if err != nil {
		return err
	}
	text := string(data)

	formatted, diff, err := format.SourceWithDiff(name, text, popts, dopts)
	if err != nil {
		return withFile(err, name)
	}
	changed := formatted != text

	if opts.list && changed {
		if _, err := fmt.Fprintln(a.stdout, name); err != nil {
			return err
		}
	}
	if opts.diff {
		if _, err := io.WriteString(a.stdout, diff); err != nil {
			return err
		}
	}
	if opts.write {
		if !changed {
			return nil
		}
		info, err := a.fs.Stat(name)
		if err != nil {
			return err
		}
		a.logger.Info("rewriting %s", name)
		return a.fs.WriteFile(name, []byte(formatted), info.Mode().Perm())
	}
	if !opts.list && !opts.diff {
		_, err = io.WriteString(a.stdout, formatted)
	}
	return err
}

// withFile attaches the file name to syntax errors raised on in-memory text.
func withFile(err error, name string) error {
	var se *parser.SyntaxError
	if errors.As(err, &se) && se.File == "" {
		se.File = name
	}
	if errors.Is(err, format.ErrComments) {
		return fmt.Errorf("%s: %w (use --drop-comments)", name, err)
	}
	return err
}
