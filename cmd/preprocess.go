package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"baa/colors"
	"baa/internal/diagnostics"
	"baa/internal/preprocessor"
)

// cmdPreprocess prints the processed translation unit, or the diagnostic
// summary on failure. It is a thin driver; all the work happens in the
// preprocessor.
var cmdPreprocess = &cobra.Command{
	Use:   "preprocess <file>",
	Short: "run the preprocessor and print the processed text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sink := diagnostics.NewSink(diagnostics.DefaultLimits())
		pp := preprocessor.New(argsRoot.includePaths, sink)

		out, err := pp.ProcessFile(args[0])
		if err != nil {
			colors.RED.Println(err.Error())
			return fmt.Errorf("فشلت المعالجة المسبقة")
		}

		fmt.Print(out)
		if sink.Count(diagnostics.SeverityWarning) > 0 {
			colors.YELLOW.Println(sink.Summary())
		}
		return nil
	},
}
