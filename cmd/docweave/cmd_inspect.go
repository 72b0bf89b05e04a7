package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/placeholder"
)

// inspectCmd summarizes a template or produced document
var inspectCmd = &cobra.Command{
	Use:   "inspect <file.docx>",
	Short: "List a document's paragraphs, tables and remaining placeholders",
	Long: `Prints the body paragraphs with their styles, the table shapes, the
header and footer text, and every placeholder marker still present.

Useful to check a new template revision before composing with it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	r, err := docx.OpenReader(args[0])
	if err != nil {
		return err
	}
	defer r.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Body:")
	for _, b := range r.Blocks() {
		switch {
		case b.Table != nil:
			fmt.Fprintf(out, "  [table %dx%d]\n", len(b.Table.Rows), b.Table.ColCount())
		case b.Paragraph != nil:
			printParagraph(out, r, *b.Paragraph)
		}
	}

	for _, h := range r.Headers() {
		fmt.Fprintf(out, "Header %s: %q\n", h.Name, h.Text)
	}
	for _, f := range r.Footers() {
		fmt.Fprintf(out, "Footer %s: %q\n", f.Name, f.Text)
	}

	found := r.Placeholders(placeholder.Tokens)
	if len(found) == 0 {
		fmt.Fprintln(out, "Placeholders: none")
		return nil
	}
	fmt.Fprintln(out, "Placeholders:")
	for _, o := range found {
		fmt.Fprintf(out, "  %s: %q x%d\n", o.Part, o.Token, o.Count)
	}
	return nil
}

func printParagraph(out io.Writer, r *docx.Reader, p docx.ParsedParagraph) {
	style := r.StyleName(p.StyleID)
	if style == "" {
		style = p.StyleID
	}
	if style == "" {
		style = "-"
	}
	var extra string
	if len(p.Images) > 0 {
		extra += fmt.Sprintf(" [%d image(s)]", len(p.Images))
	}
	if p.SectionBreak {
		extra += " [section break]"
	}
	fmt.Fprintf(out, "  (%s) %q%s\n", style, p.Text, extra)
}
