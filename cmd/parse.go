package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"baa/colors"
	"baa/internal/diagnostics"
	"baa/internal/frontend/lexer"
	"baa/internal/frontend/parser"
	"baa/internal/preprocessor"
	"baa/internal/types"
)

// cmdParse runs the whole pipeline, printing the parser's token-consumption
// trace and the final error state.
var cmdParse = &cobra.Command{
	Use:   "parse <file>",
	Short: "parse a file and report the final error state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink := diagnostics.NewSink(diagnostics.DefaultLimits())
		pp := preprocessor.New(argsRoot.includePaths, sink)

		processed, err := pp.ProcessFile(args[0])
		if err != nil {
			colors.RED.Println(err.Error())
			return fmt.Errorf("فشلت المعالجة المسبقة")
		}

		lex := lexer.New(processed, args[0])
		p := parser.New(lex, args[0], types.NewRegistry())
		p.Trace = func(tok *lexer.Token) {
			fmt.Println(tok.String())
		}
		// The priming advance ran before the trace hook existed.
		fmt.Println(p.CurrentToken().String())

		program := p.ParseProgram()

		for _, d := range p.Diagnostics {
			colors.RED.Println(d.Format())
		}

		if p.HadError() {
			colors.RED.Printf("فشل التحليل: %d تصريحات، مع أخطاء\n", len(program.Declarations))
			return fmt.Errorf("فشل التحليل")
		}
		colors.GREEN.Printf("نجح التحليل: %d تصريحات\n", len(program.Declarations))
		return nil
	},
}
