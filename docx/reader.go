package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"
)

// Reader provides read-only access to a DOCX document. It is used to
// inspect templates and produced documents; editing goes through Document.
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	document  *documentXML
	styles    *stylesXML
	rels      *relationshipsXML
	blocks    []ParsedBlock
	headers   []ParsedPart
	footers   []ParsedPart
}

// ParsedBlock is one top-level body block. Exactly one field is set.
type ParsedBlock struct {
	Paragraph *ParsedParagraph
	Table     *ParsedTable
}

// ParsedParagraph holds a parsed paragraph.
type ParsedParagraph struct {
	Text         string
	StyleID      string
	Alignment    string // left, center, right, both or empty
	Runs         []ParsedRun
	Images       []ParsedImage
	SectionBreak bool
}

// ParsedRun holds a parsed text run.
type ParsedRun struct {
	Text   string
	Bold   bool
	Italic bool
	Color  string
	Size   float64 // Points
	Font   string
}

// ParsedImage is an inline or anchored picture. Extents are in EMUs.
type ParsedImage struct {
	RelID  string
	Width  int64
	Height int64
}

// ParsedPart is a header or footer part.
type ParsedPart struct {
	Name       string
	Paragraphs []ParsedParagraph
	Text       string
}

// OpenReader opens a DOCX file for reading.
func OpenReader(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File, len(zr.File)),
	}
	for _, f := range zr.File {
		r.files[f.Name] = f
	}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	// Relationships first; header and footer parts are found through them
	if err := r.parseRelationships(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Styles are optional
	if data, err := r.getFileContent("word/styles.xml"); err == nil {
		styles := &stylesXML{}
		if xml.Unmarshal(data, styles) == nil {
			r.styles = styles
		}
	}

	if err := r.parseHeadersFooters(); err != nil {
		zr.Close()
		return nil, err
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	for _, name := range requiredParts {
		if _, ok := r.files[name]; !ok {
			return fmt.Errorf("%w: missing required file: %s", ErrNotDocx, name)
		}
	}
	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	f, ok := r.files[name]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parseRelationships parses the document relationships file.
func (r *Reader) parseRelationships() error {
	data, err := r.getFileContent(documentRelsPart)
	if err != nil {
		// Relationships file is optional
		return nil
	}

	r.rels = &relationshipsXML{}
	return xml.Unmarshal(data, r.rels)
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent(documentPart)
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}
	if r.document.Body == nil {
		return nil
	}

	for _, el := range r.document.Body.Elements {
		switch {
		case el.Paragraph != nil:
			p := parseParagraph(*el.Paragraph)
			r.blocks = append(r.blocks, ParsedBlock{Paragraph: &p})
		case el.Table != nil:
			t := parseTable(*el.Table)
			r.blocks = append(r.blocks, ParsedBlock{Table: &t})
		}
	}
	return nil
}

// parseHeadersFooters parses every header and footer part the document
// relationships point at, ordered by part name.
func (r *Reader) parseHeadersFooters() error {
	if r.rels == nil {
		return nil
	}
	for _, rel := range r.rels.Relationships {
		if rel.Type != relTypeHeader && rel.Type != relTypeFooter {
			continue
		}
		name := partName(rel.Target)
		data, err := r.getFileContent(name)
		if err != nil {
			continue
		}
		var hf headerFooterXML
		if err := xml.Unmarshal(data, &hf); err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		part := ParsedPart{Name: name, Text: leafText(data)}
		for _, p := range hf.Paragraphs {
			part.Paragraphs = append(part.Paragraphs, parseParagraph(p))
		}
		if rel.Type == relTypeHeader {
			r.headers = append(r.headers, part)
		} else {
			r.footers = append(r.footers, part)
		}
	}
	sort.Slice(r.headers, func(i, j int) bool { return r.headers[i].Name < r.headers[j].Name })
	sort.Slice(r.footers, func(i, j int) bool { return r.footers[i].Name < r.footers[j].Name })
	return nil
}

// Blocks returns the top-level body blocks in document order.
func (r *Reader) Blocks() []ParsedBlock {
	return r.blocks
}

// Paragraphs returns the top-level body paragraphs in document order.
func (r *Reader) Paragraphs() []ParsedParagraph {
	var paras []ParsedParagraph
	for _, b := range r.blocks {
		if b.Paragraph != nil {
			paras = append(paras, *b.Paragraph)
		}
	}
	return paras
}

// Tables returns the top-level body tables in document order.
func (r *Reader) Tables() []ParsedTable {
	var tables []ParsedTable
	for _, b := range r.blocks {
		if b.Table != nil {
			tables = append(tables, *b.Table)
		}
	}
	return tables
}

// Headers returns the header parts.
func (r *Reader) Headers() []ParsedPart {
	return r.headers
}

// Footers returns the footer parts.
func (r *Reader) Footers() []ParsedPart {
	return r.footers
}

// Text extracts the text of the top-level body paragraphs, one per line.
func (r *Reader) Text() string {
	var result strings.Builder
	for i, para := range r.Paragraphs() {
		if i > 0 {
			result.WriteString("\n")
		}
		result.WriteString(para.Text)
	}
	return result.String()
}

// StyleName returns the display name of a style ID, or "" when unknown.
func (r *Reader) StyleName(styleID string) string {
	if r.styles == nil {
		return ""
	}
	for _, style := range r.styles.Styles {
		if style.StyleID == styleID {
			return style.Name.Val
		}
	}
	return ""
}

// HasPart reports whether the package contains the named part.
func (r *Reader) HasPart(name string) bool {
	_, ok := r.files[name]
	return ok
}

// Occurrence is a placeholder token found in a part.
type Occurrence struct {
	Part  string
	Token string
	Count int
}

// Placeholders reports which of the given tokens still appear in the body
// (including text boxes and content controls), headers and footers. Text
// is concatenated across leaves, so tokens split over several runs are
// found too.
func (r *Reader) Placeholders(tokens []string) []Occurrence {
	names := []string{documentPart}
	for _, h := range r.headers {
		names = append(names, h.Name)
	}
	for _, f := range r.footers {
		names = append(names, f.Name)
	}

	var found []Occurrence
	for _, name := range names {
		data, err := r.getFileContent(name)
		if err != nil {
			continue
		}
		text := leafText(data)
		for _, tok := range tokens {
			if n := strings.Count(text, tok); n > 0 {
				found = append(found, Occurrence{Part: name, Token: tok, Count: n})
			}
		}
	}
	return found
}

// leafText concatenates the character data of every w:t and a:t element
// in an XML part.
func leafText(data []byte) string {
	var sb strings.Builder
	d := xml.NewDecoder(bytes.NewReader(data))
	inText := false
	for {
		tok, err := d.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inText = t.Name.Local == "t"
		case xml.EndElement:
			inText = false
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String()
}

// parseParagraph converts a paragraph XML element into a ParsedParagraph.
func parseParagraph(p paragraphXML) ParsedParagraph {
	parsed := ParsedParagraph{
		StyleID:      p.Properties.Style.Val,
		Alignment:    p.Properties.Justification.Val,
		SectionBreak: p.Properties.SectPr != nil,
	}

	runs := p.Runs
	for _, h := range p.Hyperlinks {
		runs = append(runs, h.Runs...)
	}

	var textParts []string
	for _, run := range runs {
		for _, d := range run.Drawing {
			inline := d.Inline
			if inline == nil {
				inline = d.Anchor
			}
			if inline == nil {
				continue
			}
			img := ParsedImage{
				Width:  parseEMU(inline.Extent.CX),
				Height: parseEMU(inline.Extent.CY),
			}
			if inline.Blip != nil {
				img.RelID = inline.Blip.Embed
			}
			parsed.Images = append(parsed.Images, img)
		}

		runText := extractRunText(run)
		if runText == "" {
			continue
		}
		textParts = append(textParts, runText)
		props := run.Properties
		pr := ParsedRun{
			Text:   runText,
			Bold:   props.Bold.on(),
			Italic: props.Italic.on(),
			Color:  props.Color.Val,
			Font:   props.Font.ASCII,
		}
		if hp := atoi(props.FontSize.Val); hp > 0 {
			pr.Size = float64(hp) / 2
		}
		parsed.Runs = append(parsed.Runs, pr)
	}
	parsed.Text = strings.Join(textParts, "")

	return parsed
}

// extractRunText extracts text from a run element.
func extractRunText(run runXML) string {
	var sb strings.Builder
	for _, item := range run.Content {
		switch item.XMLName.Local {
		case "t":
			sb.WriteString(item.Value)
		case "tab":
			sb.WriteString("\t")
		case "br":
			if item.Type == "page" {
				sb.WriteString("\n\n")
			} else {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

func parseEMU(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// partName resolves a relationship target relative to word/.
func partName(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join("word", target))
}
