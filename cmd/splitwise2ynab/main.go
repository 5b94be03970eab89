// Package main is the entry point for the splitwise2ynab CLI.
package main

import (
	"os"

	"github.com/Markpayne01/splitwise2ynab/cmd/splitwise2ynab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
