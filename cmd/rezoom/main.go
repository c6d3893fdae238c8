// Package main provides the rezoom command line: the HTTP API server plus
// developer tools for migrations, resume extraction, rendering and tokens.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "rezoom",
	Short:         "Rezoom conversational resume builder",
	Long:          "Rezoom keeps a structured career profile, edits it through a tool-calling chat assistant, imports uploaded resumes and renders LaTeX and PDF resumes.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional JSON config file; environment variables override it")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
