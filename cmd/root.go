package cmd

import (
	"fmt"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

var version = semver.Version{
	Major: 0,
	Minor: 3,
	Patch: 0,
	Build: semver.Commit(),
}

var argsRoot struct {
	includePaths []string
}

var cmdRoot = &cobra.Command{
	Use:   "baa",
	Short: "baa front end driver",
	Long:  "Drivers for the Baa front end: preprocess, tokenize and parse Baa source files.",
}

var cmdVersion = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", version.Short())
	},
}

// Execute wires the command tree and runs it.
func Execute() error {
	cmdRoot.PersistentFlags().StringSliceVarP(&argsRoot.includePaths, "include", "I", nil, "directory to add to the include search list")

	cmdRoot.AddCommand(cmdVersion)
	cmdRoot.AddCommand(cmdPreprocess)
	cmdRoot.AddCommand(cmdTokens)
	cmdRoot.AddCommand(cmdParse)

	return cmdRoot.Execute()
}
