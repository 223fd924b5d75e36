package cmd

import (
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/interpreter"
	"github.com/xa-lang/xa/internal/repl"
)

const historyFile = ".xa_history"

func newReplCommand(a *app) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive xa session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := interpreter.New(interpreter.WithMaxIterations(a.config.Run.MaxIterations))
			shell := repl.New(in, a.fs, a.stdout, a.diag)

			histPath := ""
			if !noHistory {
				if home, err := os.UserHomeDir(); err == nil {
					histPath = filepath.Join(home, historyFile)
				}
			}
			a.logger.Debug("history file: %q", histPath)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return shell.Run(ctx, histPath)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not read or write the history file")
	return cmd
}
