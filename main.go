// Command baa drives the Baa front end: preprocessing, tokenizing and
// parsing Baa source files.
package main

import (
	"os"

	"baa/cmd"
	"baa/colors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		colors.RED.Println(err.Error())
		os.Exit(1)
	}
}
