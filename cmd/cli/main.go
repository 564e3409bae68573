// Package main is the entry point for the salespipe CLI.
package main

import (
	"os"

	"salespipe/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
