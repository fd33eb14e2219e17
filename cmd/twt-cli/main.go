// Package main provides the entry point for twt-cli.
//
// twt-cli is the command-line tool for the TWT codec: it generates secret
// bundles, mints tokens, and verifies them.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/twt-go/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
