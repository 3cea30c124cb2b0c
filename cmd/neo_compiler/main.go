// Package main provides the entry point for the NEO dataset compiler CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "neo_compiler",
	Short: "NEO dataset compiler",
	Long:  "neo_compiler merges NASA NeoWs near-earth-object summaries with JPL Small-Body Database orbital parameters into a single static JSON dataset, so downstream consumers avoid repeated API calls and rate limits.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
