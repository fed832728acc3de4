// Package main provides the CLI entry point for the TabForge tabular
// file engine.
package main

import (
	"os"

	"github.com/tabforge-labs/tabforge/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
