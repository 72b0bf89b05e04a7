// Package docxtest builds small in-memory DOCX templates for tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const namespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture" ` +
	`xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape" ` +
	`xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`

// Style is a style definition written to word/styles.xml.
type Style struct {
	Type string // paragraph, character, table
	ID   string
	Name string
}

// DefaultStyles mirrors the style names a branded Word template carries.
func DefaultStyles() []Style {
	return []Style{
		{"paragraph", "Normal", "Normal"},
		{"paragraph", "Heading1", "heading 1"},
		{"paragraph", "Heading2", "heading 2"},
		{"paragraph", "Heading3", "heading 3"},
		{"paragraph", "Heading4", "heading 4"},
		{"paragraph", "Subtitle", "Subtitle"},
		{"paragraph", "Bullet1", "Bullet 1"},
		{"paragraph", "ListParagraph", "List Paragraph"},
		{"table", "GridTable4-Accent6", "Grid Table 4 Accent 6"},
	}
}

// Template describes a synthetic DOCX package. Body, Header and Footer
// hold inner XML; an empty Header or Footer omits that part.
type Template struct {
	Body   string
	Header string
	Footer string
	Styles []Style // nil means DefaultStyles
}

// Bytes renders the template as a zip archive.
func (t Template) Bytes() ([]byte, error) {
	styles := t.Styles
	if styles == nil {
		styles = DefaultStyles()
	}

	var sect strings.Builder
	sect.WriteString(`<w:sectPr>`)
	if t.Header != "" {
		sect.WriteString(`<w:headerReference w:type="default" r:id="rIdHeader1"/>`)
	}
	if t.Footer != "" {
		sect.WriteString(`<w:footerReference w:type="default" r:id="rIdFooter1"/>`)
	}
	sect.WriteString(`<w:pgSz w:w="12240" w:h="15840"/>`)
	sect.WriteString(`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`)
	sect.WriteString(`</w:sectPr>`)

	var types strings.Builder
	types.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)

	var rels strings.Builder
	rels.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)

	files := map[string]string{
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + namespaces + `><w:body>` + t.Body + sect.String() + `</w:body></w:document>`,
		"word/styles.xml": stylesXML(styles),
	}
	if t.Header != "" {
		files["word/header1.xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr ` + namespaces + `>` + t.Header + `</w:hdr>`
		types.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
		rels.WriteString(`<Relationship Id="rIdHeader1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>`)
	}
	if t.Footer != "" {
		files["word/footer1.xml"] = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr ` + namespaces + `>` + t.Footer + `</w:ftr>`
		types.WriteString(`<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`)
		rels.WriteString(`<Relationship Id="rIdFooter1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`)
	}
	types.WriteString(`</Types>`)
	rels.WriteString(`</Relationships>`)
	files["[Content_Types].xml"] = types.String()
	files["word/_rels/document.xml.rels"] = rels.String()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "word/document.xml",
		"word/_rels/document.xml.rels", "word/styles.xml",
		"word/header1.xml", "word/footer1.xml",
	} {
		content, ok := files[name]
		if !ok {
			continue
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stylesXML(styles []Style) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	for _, s := range styles {
		fmt.Fprintf(&sb, `<w:style w:type="%s" w:styleId="%s"><w:name w:val="%s"/></w:style>`, s.Type, s.ID, s.Name)
	}
	sb.WriteString(`</w:styles>`)
	return sb.String()
}

// Build renders the template, failing the test on error.
func Build(tb testing.TB, t Template) []byte {
	tb.Helper()
	data, err := t.Bytes()
	if err != nil {
		tb.Fatalf("building template: %v", err)
	}
	return data
}

// Write renders the template into dir/name and returns the path.
func Write(tb testing.TB, dir, name string, t Template) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(tb, t), 0o644); err != nil {
		tb.Fatalf("writing template: %v", err)
	}
	return path
}

// Para returns a paragraph with one run per text.
func Para(texts ...string) string {
	return ParaStyled("", texts...)
}

// ParaStyled returns a paragraph with the given style ID and one run per
// text.
func ParaStyled(styleID string, texts ...string) string {
	var sb strings.Builder
	sb.WriteString(`<w:p>`)
	if styleID != "" {
		fmt.Fprintf(&sb, `<w:pPr><w:pStyle w:val="%s"/></w:pPr>`, styleID)
	}
	for _, t := range texts {
		sb.WriteString(Run(t))
	}
	sb.WriteString(`</w:p>`)
	return sb.String()
}

// CenteredPara returns a center-aligned paragraph with one run per text.
func CenteredPara(texts ...string) string {
	var sb strings.Builder
	sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	for _, t := range texts {
		sb.WriteString(Run(t))
	}
	sb.WriteString(`</w:p>`)
	return sb.String()
}

// Run returns a plain run.
func Run(text string) string {
	return `<w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r>`
}

// ContentControl wraps paragraphs in a block-level content control.
func ContentControl(inner string) string {
	return `<w:sdt><w:sdtPr><w:alias w:val="control"/></w:sdtPr><w:sdtContent>` + inner + `</w:sdtContent></w:sdt>`
}

// TextBox returns a paragraph anchoring a drawing text box that holds the
// given paragraphs.
func TextBox(inner string) string {
	return `<w:p><w:r><w:drawing><wp:anchor><wp:extent cx="914400" cy="914400"/><wp:docPr id="7" name="Text Box 7"/>` +
		`<a:graphic><a:graphicData uri="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
		`<wps:wsp><wps:txbx><w:txbxContent>` + inner + `</w:txbxContent></wps:txbx></wps:wsp>` +
		`</a:graphicData></a:graphic></wp:anchor></w:drawing></w:r></w:p>`
}

// Table returns a table with one text cell per entry.
func Table(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr/><w:tblGrid/>`)
	for _, row := range rows {
		sb.WriteString(`<w:tr>`)
		for _, cell := range row {
			sb.WriteString(`<w:tc>` + Para(cell) + `</w:tc>`)
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
	return sb.String()
}

// SectionBreak returns a paragraph carrying section properties with the
// given text.
func SectionBreak(text string) string {
	return `<w:p><w:pPr><w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr></w:pPr>` + Run(text) + `</w:p>`
}
