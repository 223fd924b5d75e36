package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xa-lang/xa/internal/lexer"
)

func newTokensCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [FILE]",
		Short: "Print the token stream of a program",
		Long: `Tokens prints one line per token: position, kind and text. Without a
file, or with "-", the program is read from standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "-" {
				data, err := io.ReadAll(a.stdin)
				if err != nil {
					return err
				}
				return a.printTokens(lexer.Tokenize(string(data)))
			}

			src, err := lexer.NewFileOpener(a.fs).Open(args[0])
			if err != nil {
				return err
			}
			defer src.Close()

			var toks []lexer.Token
			for {
				tok := src.NextToken()
				toks = append(toks, tok)
				if tok.Kind == lexer.EOF {
					break
				}
			}
			return a.printTokens(toks)
		},
	}
}

func (a *app) printTokens(toks []lexer.Token) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, tok := range toks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok.Text)
	}
	return tw.Flush()
}
