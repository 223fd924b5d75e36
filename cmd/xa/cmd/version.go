package cmd

import (
	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/cli"
)

func newVersionCommand(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.PrintVersion(a.stdout, "xa", jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version information as JSON")
	return cmd
}
