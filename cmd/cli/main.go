// Package main is the entry point for the reservation-analysis CLI.
package main

import (
	"os"

	"reservation-analysis/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
