// Package placeholder replaces the marker text a branded template carries
// in its cover page, headers and footers.
//
// Replacement works on text leaves (see docx.TextLeaves) rather than on
// paragraphs, so markers inside content controls and drawing text boxes
// are reached. Each leaf is edited in place; leaves are never merged.
package placeholder

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/palette"
)

// Marker text found in the standard and cover templates.
const (
	ReportNameToken   = "Enter Report Name Here"
	DocumentNameToken = "Enter Document Name Here"
	DateToken         = "Click or tap to enter a date"
	CoverTitleToken   = "[Document Title]"
	CoverClientToken  = "[Client Legal Name]"
)

// Tokens lists every marker the composer replaces.
var Tokens = []string{
	ReportNameToken,
	DocumentNameToken,
	DateToken,
	CoverTitleToken,
	CoverClientToken,
}

// headerFontSize is the size, in points, of text written into headers and
// footers.
const headerFontSize = 9

// Replacement maps a literal token to its value.
type Replacement struct {
	Token string
	Value string
}

// Substitute replaces every token in every writable text leaf under root
// and returns the number of leaves changed. Read-only leaves are skipped.
func Substitute(root *etree.Element, replacements []Replacement) int {
	changed := 0
	for _, leaf := range docx.TextLeaves(root) {
		if replaceLeaf(leaf, replacements) {
			changed++
		}
	}
	return changed
}

// replaceLeaf applies the replacements to a single leaf and reports
// whether its text changed.
func replaceLeaf(leaf docx.Leaf, replacements []Replacement) bool {
	text := leaf.Text()
	updated := text
	for _, r := range replacements {
		if r.Token != "" && strings.Contains(updated, r.Token) {
			updated = strings.ReplaceAll(updated, r.Token, r.Value)
		}
	}
	if updated == text {
		return false
	}
	// Field codes and deleted text reject edits with docx.ErrReadOnlyText
	return leaf.SetText(updated) == nil
}

// Cover fills the cover page title and client markers anywhere in the
// document body, including text boxes. It returns the number of leaves
// changed.
func Cover(doc *docx.Document, title, client string) int {
	return Substitute(doc.Body(), []Replacement{
		{Token: CoverTitleToken, Value: title},
		{Token: CoverClientToken, Value: client},
	})
}

// Header writes text into a header part. Every leaf holding a report or
// document name marker is rewritten and its run colored brand purple.
// When the part holds no marker a right-aligned paragraph carrying the
// text is appended instead. An empty text leaves the part untouched.
// Header reports whether a marker was found.
func Header(part *docx.Part, text string) bool {
	if text == "" {
		return false
	}
	replacements := []Replacement{
		{Token: ReportNameToken, Value: text},
		{Token: DocumentNameToken, Value: text},
	}

	found := false
	for _, leaf := range docx.TextLeaves(part.Root()) {
		if !replaceLeaf(leaf, replacements) {
			continue
		}
		found = true
		if run := leaf.Run(); run != nil && run.FullTag() == "w:r" {
			docx.SetRunColor(run, palette.BrandPurple)
		}
	}
	if found {
		return true
	}

	p := docx.AppendParagraph(part.Root())
	p.SetAlignment(docx.AlignRight)
	p.AddRun(text, docx.Font{Size: headerFontSize, Color: palette.BrandPurple})
	return false
}

// FooterDate replaces the date marker in a footer part. Templates store
// the marker's trailing period in the following leaf; that leaf is blanked
// when its text is exactly ".". It returns the number of markers replaced.
func FooterDate(part *docx.Part, date string) int {
	if date == "" {
		return 0
	}
	replaced := 0
	leaves := docx.TextLeaves(part.Root())
	for i, leaf := range leaves {
		if !replaceLeaf(leaf, []Replacement{{Token: DateToken, Value: date}}) {
			continue
		}
		replaced++
		if i+1 < len(leaves) && leaves[i+1].Text() == "." {
			// Read-only successors keep their period
			_ = leaves[i+1].SetText("")
		}
	}
	return replaced
}

// FooterText overwrites the footer's center line. The target is the first
// paragraph that is centered or mentions the brand or a copyright sign,
// else the first paragraph. Its content is replaced by one 9 pt brand
// purple run and the paragraph is centered. FooterText reports whether a
// paragraph was written.
func FooterText(part *docx.Part, text, brand string) bool {
	if text == "" {
		return false
	}
	paras := part.Root().SelectElements("w:p")
	if len(paras) == 0 {
		return false
	}

	target := paras[0]
	for _, el := range paras {
		p := docx.WrapParagraph(el)
		content := p.Text()
		if p.Alignment() == docx.AlignCenter ||
			(brand != "" && strings.Contains(content, brand)) ||
			strings.Contains(content, "©") {
			target = el
			break
		}
	}

	p := docx.WrapParagraph(target).Clear()
	p.AddRun(text, docx.Font{Size: headerFontSize, Color: palette.BrandPurple})
	p.SetAlignment(docx.AlignCenter)
	return true
}
