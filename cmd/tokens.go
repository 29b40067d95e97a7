package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"baa/internal/diagnostics"
	"baa/internal/frontend/lexer"
	"baa/internal/preprocessor"
)

// cmdTokens prints the token stream of a preprocessed file, one token per
// line, error tokens included.
var cmdTokens = &cobra.Command{
	Use:   "tokens <file>",
	Short: "print the lexer's token stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink := diagnostics.NewSink(diagnostics.DefaultLimits())
		pp := preprocessor.New(argsRoot.includePaths, sink)

		processed, err := pp.ProcessFile(args[0])
		if err != nil {
			return err
		}

		lex := lexer.New(processed, args[0])
		for {
			tok := lex.NextToken()
			fmt.Println(tok.String())
			if tok.Err != nil && tok.Err.Suggestion != "" {
				fmt.Printf("  اقتراح: %s\n", tok.Err.Suggestion)
			}
			if tok.Kind == lexer.TokenEOF {
				return nil
			}
		}
	},
}
