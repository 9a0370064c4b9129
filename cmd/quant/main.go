package main

import (
	"os"

	"github.com/alexdcerda/AI-ML-Systematic-Equities-Trading-Algorithm/cmd/quant/commands"
)

// main is the entry point for the signal engine CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
