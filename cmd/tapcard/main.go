// Package main is the entry point for the tapcard CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tapcard/internal/cli"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCommand()
	cli.SetVersion(root, fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date))

	err := root.Execute()
	// ExitErrors have already been reported through the output formatter.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
