// Package strip removes the sample and style-guide content a Word
// template ships with, keeping cover-page text and branding.
package strip

import (
	"strings"

	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/templates"
)

// SampleMarkers are substrings that identify style-guide paragraphs.
var SampleMarkers = []string{
	"Heading 1", "Heading 2", "Heading 3", "Heading 4",
	"Arial", "Pangram", "Font Color", "18pt", "16pt", "14pt", "12pt",
	"#4A4778", "#12002A", "Donyati Black",
	"Bullet 1", "Bullet 2", "Bullet 3", "Bullet 4",
	"Sample Table", "Normal type", "type (",
	"Text 12pt",
}

// brandingMarkers keep a paragraph regardless of template kind.
var brandingMarkers = []string{"©", "All Rights Reserved"}

// Result counts what Strip changed.
type Result struct {
	Paragraphs int // paragraphs removed
	Cleared    int // section-break paragraphs emptied instead of removed
	Tables     int // tables removed
	Leading    int // leading empty paragraphs removed
}

// KeepSet returns the exact paragraph texts a cover page must keep: the
// title, the client, and the "Prepared For" line. Empty values are left
// out.
func KeepSet(title, client string) []string {
	keep := []string{"Prepared For: " + client, "Prepared For:"}
	if title != "" {
		keep = append(keep, title)
	}
	if client != "" {
		keep = append(keep, client)
	}
	return keep
}

// IsSample reports whether text contains a style-guide marker.
func IsSample(text string) bool {
	for _, m := range SampleMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

func isBranding(text string) bool {
	for _, m := range brandingMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Strip cleans the top-level body of doc. Every non-empty paragraph whose
// trimmed text is in keep, or that carries a copyright or rights notice,
// stays. Of the rest, the cover template loses only sample paragraphs and
// the standard template loses everything. All top-level tables are
// removed, then leading empty paragraphs.
//
// Paragraphs carrying section properties are emptied rather than removed
// so the section's page setup and header bindings survive, and the leading
// trim stops at a paragraph holding a drawing or a section break.
func Strip(doc *docx.Document, keep []string, kind templates.Kind) Result {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	var res Result
	for _, block := range doc.Blocks() {
		if block.FullTag() == "w:tbl" {
			doc.Remove(block)
			res.Tables++
			continue
		}

		text := strings.TrimSpace(docx.ParagraphText(block))
		if text == "" || keepSet[text] || isBranding(text) {
			continue
		}
		if kind == templates.Cover && !IsSample(text) {
			continue
		}

		if docx.HasSectionBreak(block) {
			docx.WrapParagraph(block).Clear()
			res.Cleared++
			continue
		}
		doc.Remove(block)
		res.Paragraphs++
	}

	for _, block := range doc.Blocks() {
		if block.FullTag() != "w:p" ||
			docx.HasDrawing(block) ||
			docx.HasSectionBreak(block) ||
			strings.TrimSpace(docx.ParagraphText(block)) != "" {
			break
		}
		doc.Remove(block)
		res.Leading++
	}

	return res
}
