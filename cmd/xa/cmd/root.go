// Package cmd implements the xa command line.
package cmd

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/cli"
	"github.com/xa-lang/xa/internal/vfs"
)

// app carries the state shared by every subcommand once the root command
// has loaded the configuration.
type app struct {
	cfgFile string
	verbose bool
	debug   bool
	noColor bool

	fs     vfs.FileSystem
	config *cli.Config
	logger *cli.Logger
	diag   *cli.Diagnostics

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// errReported marks an error whose diagnostic has already been printed.
var errReported = errors.New("error reported")

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{fs: vfs.NewOS(), stdin: stdin, stdout: stdout, stderr: stderr}
}

// NewRootCommand builds the xa command tree writing to the given streams.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	return newRootCommand(newApp(stdin, stdout, stderr))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "xa",
		Short: "xa - a small teaching language",
		Long: `xa runs programs written in the xa teaching language: integer variables,
repeat loops, if/elseif/else and output statements.

Configuration is read from --config, or from xa.toml / xa.yaml in the
working directory when present.`,
		Version:           cli.Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./xa.toml or ./xa.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "debug output, including a statement trace")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(
		newRunCommand(a),
		newParseCommand(a),
		newTokensCommand(a),
		newFmtCommand(a),
		newReplCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup loads the configuration and builds the logger and diagnostics.
func (a *app) setup() error {
	// Diagnostics for config errors themselves.
	a.diag = cli.NewDiagnostics(a.stderr, false)

	cfg, err := cli.LoadConfig(a.fs, a.cfgFile, os.LookupEnv)
	if err != nil {
		return err
	}
	a.config = cfg

	level, err := cli.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if a.verbose && level > cli.LevelInfo {
		level = cli.LevelInfo
	}
	if a.debug {
		level = cli.LevelDebug
	}
	a.logger = cli.NewLoggerTo(a.stderr, level)
	if cfg.File != "" {
		a.logger.Debug("loaded config from %s", cfg.File)
	}

	color := false
	if f, ok := a.stderr.(*os.File); ok {
		color = cli.ColorEnabled(cfg, a.noColor, f.Fd())
	}
	a.diag = cli.NewDiagnostics(a.stderr, color)
	return nil
}

// Execute runs the xa command line and returns the process exit status.
func Execute() int {
	return execute(newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:])
}

func execute(a *app, args []string) int {
	root := newRootCommand(a)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			a.report(err)
		}
		return 1
	}
	return 0
}

// report prints err as a diagnostic on stderr.
func (a *app) report(err error) {
	if a.diag == nil {
		a.diag = cli.NewDiagnostics(a.stderr, false)
	}
	a.diag.Error(err)
}
