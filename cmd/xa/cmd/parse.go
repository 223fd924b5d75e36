package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/format"
	"github.com/xa-lang/xa/internal/lexer"
	"github.com/xa-lang/xa/internal/parser"
)

func newParseCommand(a *app) *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				dumpFormat = a.config.Output.Format
			}

			prog, err := parser.ParseFile(lexer.NewFileOpener(a.fs), args[0])
			if err != nil {
				return err
			}
			data, err := format.Dump(prog, dumpFormat)
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "tree", "output format: tree, yaml or json (default from config)")
	return cmd
}
