package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docweave/docx/docxtest"
)

func parseTemplate(t *testing.T, tmpl docxtest.Template) *Document {
	t.Helper()
	doc, err := Parse(docxtest.Build(t, tmpl))
	require.NoError(t, err)
	return doc
}

// saveAndRead saves the document and opens it with a Reader.
func saveAndRead(t *testing.T, doc *Document) *Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, doc.Save(path))
	r, err := OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func childTags(el *etree.Element) []string {
	var tags []string
	for _, c := range el.ChildElements() {
		tags = append(tags, c.FullTag())
	}
	return tags
}

func TestParseRejectsNonDocx(t *testing.T) {
	var missingDocument bytes.Buffer
	zw := zip.NewWriter(&missingDocument)
	w, _ := zw.Create("[Content_Types].xml")
	w.Write([]byte(`<Types/>`))
	zw.Close()

	tests := []struct {
		name string
		data []byte
	}{
		{"not a zip", []byte("plain text")},
		{"missing document part", missingDocument.Bytes()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			assert.True(t, errors.Is(err, ErrNotDocx), "got %v", err)
		})
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.docx"))
	assert.Error(t, err)
}

func TestHeadersAndFooters(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{
		Body:   docxtest.Para("body"),
		Header: docxtest.Para("Enter Report Name Here"),
		Footer: docxtest.Para("footer"),
	})

	require.Len(t, doc.Headers(), 1)
	require.Len(t, doc.Footers(), 1)
	assert.Equal(t, "word/header1.xml", doc.Headers()[0].Name)
	assert.Equal(t, "word/footer1.xml", doc.Footers()[0].Name)
	assert.Equal(t, "w:hdr", doc.Headers()[0].Root().FullTag())
}

func TestNoHeaders(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{Body: docxtest.Para("body")})
	assert.Empty(t, doc.Headers())
	assert.Empty(t, doc.Footers())
}

func TestEnsureHeader(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{Body: docxtest.Para("body")})

	part := doc.EnsureHeader()
	require.NotNil(t, part)
	assert.Equal(t, "word/header1.xml", part.Name)
	assert.Equal(t, []*Part{part}, doc.Headers())
	assert.Nil(t, doc.EnsureHeader(), "the first section has a header now")

	sect := doc.Body().SelectElement("w:sectPr")
	ref := sect.ChildElements()[0]
	assert.Equal(t, "w:headerReference", ref.FullTag())
	assert.Equal(t, "default", ref.SelectAttrValue("w:type", ""))
	assert.Equal(t, "rId2", ref.SelectAttrValue("r:id", ""))

	AppendParagraph(part.Root()).AddRun("Added header", Font{})
	out, err := doc.Bytes()
	require.NoError(t, err)
	types := string(zipEntry(t, out, "[Content_Types].xml"))
	assert.Contains(t, types, `PartName="/word/header1.xml"`)
	assert.Contains(t, types, headerContentType)
	assert.Contains(t, string(zipEntry(t, out, "word/_rels/document.xml.rels")), `Target="header1.xml"`)

	r := saveAndRead(t, doc)
	require.Len(t, r.Headers(), 1)
	assert.Equal(t, "word/header1.xml", r.Headers()[0].Name)
	assert.Equal(t, "Added header", r.Headers()[0].Text)
}

func TestEnsureHeaderKeepsExisting(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{
		Body:   docxtest.Para("body"),
		Header: docxtest.Para("existing"),
	})
	assert.Nil(t, doc.EnsureHeader())
	assert.Len(t, doc.Headers(), 1)
}

func TestEnsureHeaderFirstSection(t *testing.T) {
	// Only the last section references a header; the first gets its own
	doc := parseTemplate(t, docxtest.Template{
		Body:   docxtest.SectionBreak("cover"),
		Header: docxtest.Para("existing"),
	})
	part := doc.EnsureHeader()
	require.NotNil(t, part)
	assert.Equal(t, "word/header2.xml", part.Name)
	require.Len(t, doc.Headers(), 2)
	assert.Same(t, part, doc.Headers()[0])

	first := doc.Blocks()[0].FindElement("w:pPr/w:sectPr")
	require.NotNil(t, first)
	assert.Equal(t, "w:headerReference", first.ChildElements()[0].FullTag())
}

func TestWriteToCountsBytes(t *testing.T) {
	var _ io.WriterTo = (*Document)(nil)

	doc := parseTemplate(t, docxtest.Template{Body: docxtest.Para("x")})
	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Positive(t, n)
}

func TestStyleSheetID(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"Normal", "Normal", true},
		{"Heading 1", "Heading1", true},
		{"heading 4", "Heading4", true},
		{"Bullet 1", "Bullet1", true},
		{"List Paragraph", "ListParagraph", true},
		{"Grid Table 4 Accent 6", "GridTable4-Accent6", true},
		{"Subtitle", "Subtitle", true},
		{"Heading 9", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := doc.Styles.ID(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMissingStyleIsOmitted(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{Styles: []docxtest.Style{}})
	p := doc.AddText("Bullet 1", "item", Font{})
	assert.Nil(t, p.Element().SelectElement("w:pPr"))
}

func TestAppendKeepsSectionPropertiesLast(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{Body: docxtest.Para("existing")})

	doc.AddText("Normal", "first", Font{})
	doc.AddTable(1, 1, "")
	doc.AddText("Normal", "last", Font{})

	assert.Equal(t, []string{"w:p", "w:p", "w:tbl", "w:p", "w:sectPr"}, childTags(doc.Body()))
}

func TestAddRunFormatting(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	p := doc.AddParagraph("Normal")
	p.AddRun("Value", Font{Name: "Courier New", Size: 8, Bold: true, Italic: true, Color: "333333"})
	p.SetAlignment(AlignCenter)

	rPr := p.Element().FindElement("w:r/w:rPr")
	require.NotNil(t, rPr)
	assert.Equal(t, []string{"w:rFonts", "w:b", "w:i", "w:color", "w:sz", "w:szCs"}, childTags(rPr))

	r := saveAndRead(t, doc)
	paras := r.Paragraphs()
	require.Len(t, paras, 1)
	got := paras[0]
	assert.Equal(t, "Normal", got.StyleID)
	assert.Equal(t, "center", got.Alignment)
	require.Len(t, got.Runs, 1)
	assert.Equal(t, ParsedRun{
		Text: "Value", Bold: true, Italic: true, Color: "333333", Size: 8, Font: "Courier New",
	}, got.Runs[0])
}

func TestAddRunBreaksAndTabs(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	p := doc.AddParagraph("")
	p.AddRun("a\tb\nc", Font{})

	assert.Equal(t, []string{"w:t", "w:tab", "w:t", "w:br", "w:t"}, childTags(p.Element().SelectElement("w:r")))
	assert.Equal(t, "a\tb\nc", p.Text())
}

func TestSetAlignmentReplaces(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	p := doc.AddParagraph("Normal")
	p.SetAlignment(AlignRight)
	p.SetAlignment(AlignLeft)

	assert.Equal(t, AlignLeft, p.Alignment())
	assert.Len(t, p.Element().FindElements("w:pPr/w:jc"), 1)
	assert.Equal(t, []string{"w:pStyle", "w:jc"}, childTags(p.Element().SelectElement("w:pPr")))
}

func TestClearKeepsProperties(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	p := doc.AddParagraph("Normal")
	p.AddRun("one", Font{})
	p.AddRun("two", Font{})

	p.Clear()

	assert.Equal(t, []string{"w:pPr"}, childTags(p.Element()))
	assert.Equal(t, "", p.Text())
}

func TestSetRunColor(t *testing.T) {
	tests := []struct {
		name string
		run  string
		want []string
	}{
		{
			name: "no properties",
			run:  `<w:r><w:t>x</w:t></w:r>`,
			want: []string{"w:color"},
		},
		{
			name: "ordered before size",
			run:  `<w:r><w:rPr><w:b/><w:sz w:val="20"/></w:rPr><w:t>x</w:t></w:r>`,
			want: []string{"w:b", "w:color", "w:sz"},
		},
		{
			name: "existing color replaced",
			run:  `<w:r><w:rPr><w:color w:val="FF0000"/></w:rPr><w:t>x</w:t></w:r>`,
			want: []string{"w:color"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := etree.NewDocument()
			require.NoError(t, x.ReadFromString(tt.run))
			run := x.Root()

			SetRunColor(run, "4A4778")

			rPr := run.ChildElements()[0]
			assert.Equal(t, "w:rPr", rPr.FullTag())
			assert.Equal(t, tt.want, childTags(rPr))
			assert.Equal(t, "4A4778", rPr.SelectElement("w:color").SelectAttrValue("w:val", ""))
		})
	}
}

func TestAddTable(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	tbl := doc.AddTable(2, 3, "Grid Table 4 Accent 6")
	require.Equal(t, 2, tbl.Rows())
	require.Equal(t, 3, tbl.Cols())

	cell := tbl.Cell(1, 2)
	cell.SetShading("E8E6F0")
	cell.SetBorders(Borders{
		Top:    Border{Val: "single", Size: 4, Color: "4A4778"},
		Left:   Border{Val: "single", Size: 36, Color: "4A4778"},
		Bottom: Border{Val: "single", Size: 4, Color: "4A4778"},
		Right:  Border{Val: "single", Size: 4, Color: "4A4778"},
	})
	cell.SetWidth(6.5)
	cell.Paragraph().AddRun("hello", Font{Bold: true})
	cell.AddParagraph("").AddRun("world", Font{})
	tbl.SetFixedLayout()

	assert.Equal(t, []string{"w:tcW", "w:tcBorders", "w:shd"}, childTags(cell.Element().SelectElement("w:tcPr")))

	r := saveAndRead(t, doc)
	tables := r.Tables()
	require.Len(t, tables, 1)
	got := tables[0]
	assert.Equal(t, "GridTable4-Accent6", got.StyleID)
	assert.Equal(t, "fixed", got.Layout)
	assert.Equal(t, []int{3120, 3120, 3120}, got.ColWidths)
	require.Len(t, got.Rows, 2)

	c := got.Rows[1].Cells[2]
	assert.Equal(t, "E8E6F0", c.Shading)
	assert.Equal(t, 9360, c.Width)
	assert.Equal(t, ParsedBorder{Val: "single", Size: 36, Color: "4A4778"}, c.Borders.Left)
	assert.Equal(t, 4, c.Borders.Top.Size)
	assert.Equal(t, "hello\nworld", c.Text)
	assert.Equal(t, "", got.Rows[0].Cells[0].Text)
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "chart.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestAddPicture(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{Body: docxtest.TextBox(docxtest.Para("box"))})
	path := writePNG(t, t.TempDir(), 200, 100)

	p, err := doc.AddPicture(path, 2)
	require.NoError(t, err)
	p.SetAlignment(AlignCenter)

	docPr := p.Element().FindElement(".//wp:docPr")
	require.NotNil(t, docPr)
	assert.Equal(t, "8", docPr.SelectAttrValue("id", ""), "drawing IDs continue after the template's")

	r := saveAndRead(t, doc)
	assert.True(t, r.HasPart("word/media/docweave1.png"))

	paras := r.Paragraphs()
	last := paras[len(paras)-1]
	assert.Equal(t, "center", last.Alignment)
	require.Len(t, last.Images, 1)
	assert.Equal(t, int64(2*EMUsPerInch), last.Images[0].Width)
	assert.Equal(t, int64(EMUsPerInch), last.Images[0].Height)
	assert.Equal(t, "rId2", last.Images[0].RelID)

	types, err := r.getFileContent(contentTypesPart)
	require.NoError(t, err)
	assert.Contains(t, string(types), `Extension="png"`)
}

func TestAddPictureUndecodable(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	before := len(doc.Blocks())
	_, err := doc.AddPicture(path, 6.5)
	assert.Error(t, err)
	assert.Len(t, doc.Blocks(), before, "nothing is appended on failure")
}

func TestSaveCreatesParentsAndLeavesNoTempFiles(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	dir := t.TempDir()
	out := filepath.Join(dir, "a", "b", "report.docx")

	require.NoError(t, doc.Save(out))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.docx", entries[0].Name())
}

func TestUntouchedPartsRoundTrip(t *testing.T) {
	src := docxtest.Build(t, docxtest.Template{Body: docxtest.Para("x")})
	doc, err := Parse(src)
	require.NoError(t, err)
	doc.AddText("Normal", "added", Font{})

	out, err := doc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, zipEntry(t, src, "word/styles.xml"), zipEntry(t, out, "word/styles.xml"))
	assert.Equal(t, zipNames(t, src), zipNames(t, out))
}

func zipNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func zipEntry(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			b, err := io.ReadAll(rc)
			require.NoError(t, err)
			return b
		}
	}
	t.Fatalf("entry %s not found", name)
	return nil
}

func TestContentWidth(t *testing.T) {
	doc := parseTemplate(t, docxtest.Template{})
	assert.Equal(t, 9360, doc.ContentWidth())
}
