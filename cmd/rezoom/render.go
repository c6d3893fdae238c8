package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/rezoom/internal/rendering"
	"github.com/jonathan/rezoom/internal/types"
)

var (
	renderTemplate string
	renderFormat   string
	renderOutFile  string
)

var renderCmd = &cobra.Command{
	Use:   "render <profile.json>",
	Short: "Render a resume from a profile snapshot",
	Long:  "Renders a profile snapshot (the GET /profile response body) as LaTeX or as the HTML sent to the PDF service.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", rendering.DefaultTemplate, "Template id (classic or compact)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "tex", "Output format: tex or html")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Output file (defaults to stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read profile: %w", err)
	}
	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to parse profile JSON: %w", err)
	}

	templateID, err := rendering.ResolveTemplate(renderTemplate)
	if err != nil {
		return err
	}

	var out string
	switch renderFormat {
	case "tex":
		out, err = rendering.RenderResume(&profile, templateID)
	case "html":
		out, err = rendering.RenderHTML(&profile, templateID)
	default:
		return fmt.Errorf("unknown format %q (want tex or html)", renderFormat)
	}
	if err != nil {
		return err
	}

	if renderOutFile == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(renderOutFile, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutFile, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", renderOutFile)
	return nil
}
