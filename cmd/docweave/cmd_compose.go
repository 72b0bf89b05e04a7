package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/docweave"
	"github.com/tsawler/docweave/content"
	"github.com/tsawler/docweave/templates"
)

var templateFlag string

// composeCmd builds a document
var composeCmd = &cobra.Command{
	Use:   "compose <content> <output>",
	Short: "Create a document from a content description",
	Long: `Reads a JSON or YAML content description and writes the finished .docx.

Examples:
  docweave compose content.json report.docx
  docweave compose memo.yaml memo.docx --template standard
  docweave compose proposal.json proposal.docx --template cover`,
	Args: cobra.ExactArgs(2),
	RunE: runCompose,
}

func runCompose(cmd *cobra.Command, args []string) error {
	kind, err := templates.ParseKind(templateFlag)
	if err != nil {
		return err
	}
	desc, err := content.Load(args[0])
	if err != nil {
		return err
	}

	report, err := docweave.New().
		Template(kind).
		Templates(cfg.TemplateSet()).
		Diagrams(cfg.DiagramRenderer(log)).
		Brand(cfg.Brand.Name).
		Logger(log).
		Compose(cmd.Context(), desc, args[1])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Using template: %s (%s)\n", report.Template, report.Path)
	fmt.Fprintf(out, "Created: %s\n", report.Output)
	fmt.Fprintf(out, "Sections: %d\n", report.Sections)
	if desc.Client != "" {
		fmt.Fprintf(out, "Client: %s\n", desc.Client)
	}
	for _, n := range report.Degraded {
		fmt.Fprintf(out, "Warning: %s %s\n", n.Kind, n.Message)
	}
	return nil
}
