// Package main provides the bufyaml CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "bufyaml",
		Version: version,
		Usage:   "Schema-aware completion and validation for buf YAML configs",
		Commands: []*cli.Command{
			checkCommand(),
			completeCommand(),
			watchCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
