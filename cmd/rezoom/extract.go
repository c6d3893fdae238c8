package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/rezoom/internal/extraction"
	"github.com/jonathan/rezoom/internal/ingestion"
	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/logging"
)

var (
	extractOutDir   string
	extractTextOnly bool
	extractTimeout  time.Duration
)

var extractCmd = &cobra.Command{
	Use:   "extract <resume.pdf|resume.txt>",
	Short: "Extract structured profile data from a resume file",
	Long: `Reads a PDF or plain-text resume, cleans the text and asks the model for the
five candidate lists (experiences, education, skills, projects, certifications).
The ExtractionResult JSON is printed to stdout. Nothing is persisted.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutDir, "out", "o", "", "Directory to write resume.cleaned.txt and resume.meta.json")
	extractCmd.Flags().BoolVar(&extractTextOnly, "text-only", false, "Print the cleaned text and skip the model call")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", llm.DefaultTimeout, "Model call timeout")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, meta, err := ingestion.IngestFromFile(args[0])
	if err != nil {
		return err
	}
	if extractOutDir != "" {
		if err := ingestion.WriteOutput(extractOutDir, text, meta); err != nil {
			return err
		}
	}
	if extractTextOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	client, err := llm.NewClient(cmd.Context(), modelConfig(extractTimeout), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	result, err := extraction.NewExtractor(client, logging.Nop()).Extract(cmd.Context(), text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
