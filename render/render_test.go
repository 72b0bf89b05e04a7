package render

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/docweave/diagram"
	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/docx/docxtest"
	"github.com/tsawler/docweave/model"
)

// stubDiagrams returns a fixed result and counts calls.
type stubDiagrams struct {
	result diagram.Result
	calls  int
}

func (s *stubDiagrams) Render(ctx context.Context, definition string, width float64) diagram.Result {
	s.calls++
	return s.result
}

func newDoc(t *testing.T) *docx.Document {
	t.Helper()
	doc, err := docx.Parse(docxtest.Build(t, docxtest.Template{}))
	require.NoError(t, err)
	return doc
}

// renderAll renders items into a fresh document and reads it back.
func renderAll(t *testing.T, diagrams DiagramRenderer, items ...model.Item) (*docx.Reader, *Renderer) {
	t.Helper()
	doc := newDoc(t)
	r := New(doc, diagrams, nil)
	for _, it := range items {
		require.NoError(t, r.Render(context.Background(), it))
	}
	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, doc.Save(path))
	reader, err := docx.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })
	return reader, r
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "figure.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
	return path
}

func TestParagraphsAndLists(t *testing.T) {
	reader, _ := renderAll(t, nil,
		&model.Paragraph{Text: "Intro"},
		&model.BulletList{Items: []string{"x", "y"}},
		&model.NumberedList{Items: []string{"a", "b", "c"}},
	)

	type line struct{ style, text string }
	var got []line
	for _, p := range reader.Paragraphs() {
		got = append(got, line{p.StyleID, p.Text})
	}
	assert.Equal(t, []line{
		{"Normal", "Intro"},
		{"Bullet1", "x"},
		{"Bullet1", "y"},
		{"ListParagraph", "1. a"},
		{"ListParagraph", "2. b"},
		{"ListParagraph", "3. c"},
	}, got)
}

func TestHeadingStyle(t *testing.T) {
	tests := []struct {
		level int
		want  string
	}{
		{1, "Heading 1"},
		{2, "Heading 2"},
		{4, "Heading 4"},
		{0, "Heading 1"},
		{5, "Heading 1"},
		{-3, "Heading 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HeadingStyle(tt.level), "level %d", tt.level)
	}

	reader, _ := renderAll(t, nil, &model.Heading{Text: "Scope", Level: 3}, &model.Heading{Text: "Deep", Level: 9})
	paras := reader.Paragraphs()
	require.Len(t, paras, 2)
	assert.Equal(t, "Heading3", paras[0].StyleID)
	assert.Equal(t, "Heading1", paras[1].StyleID)
}

func TestTable(t *testing.T) {
	reader, _ := renderAll(t, nil, &model.Table{
		Headers: []string{"Col1", "Col2"},
		Rows:    [][]string{{"A", "B", "dropped"}, {"C"}, {"E", "F"}},
	})

	blocks := reader.Blocks()
	require.Len(t, blocks, 2)
	require.NotNil(t, blocks[0].Table)
	require.NotNil(t, blocks[1].Paragraph, "spacer follows the table")
	assert.Equal(t, "", blocks[1].Paragraph.Text)

	tbl := blocks[0].Table
	assert.Equal(t, "GridTable4-Accent6", tbl.StyleID)
	require.Len(t, tbl.Rows, 4)
	for _, row := range tbl.Rows {
		assert.Len(t, row.Cells, 2)
	}

	for i, cell := range tbl.Rows[0].Cells {
		assert.Equal(t, "4A4778", cell.Shading)
		require.Len(t, cell.Paragraphs, 1)
		p := cell.Paragraphs[0]
		assert.Equal(t, "center", p.Alignment)
		require.Len(t, p.Runs, 1)
		assert.Equal(t, []string{"Col1", "Col2"}[i], p.Runs[0].Text)
		assert.True(t, p.Runs[0].Bold)
		assert.Equal(t, "FFFFFF", p.Runs[0].Color)
	}

	var fills []string
	for _, row := range tbl.Rows[1:] {
		fills = append(fills, row.Cells[0].Shading)
		assert.Equal(t, row.Cells[0].Shading, row.Cells[1].Shading)
	}
	assert.Equal(t, []string{"E8E6F0", "FFFFFF", "E8E6F0"}, fills)

	assert.Equal(t, "A\tB", tableRowText(tbl, 1))
	assert.Equal(t, "C\t", tableRowText(tbl, 2))
}

func tableRowText(tbl *docx.ParsedTable, row int) string {
	var s string
	for i, c := range tbl.Rows[row].Cells {
		if i > 0 {
			s += "\t"
		}
		s += c.Text
	}
	return s
}

func TestTableWithoutHeaders(t *testing.T) {
	reader, _ := renderAll(t, nil,
		&model.Table{Rows: [][]string{{"a"}, {"b", "c", "d"}}},
		&model.Table{},
	)

	tables := reader.Tables()
	require.Len(t, tables, 1, "a table without columns renders nothing")
	assert.Equal(t, 3, tables[0].ColCount())
	assert.Len(t, tables[0].Rows, 3)
	assert.Len(t, reader.Blocks(), 2)
}

func TestCallout(t *testing.T) {
	reader, _ := renderAll(t, nil,
		&model.Callout{Style: "warning", Title: "Note", Text: "Mind the gap"},
		&model.Callout{Style: "no-such-style", Text: "Body only"},
	)

	tables := reader.Tables()
	require.Len(t, tables, 2)

	first := tables[0]
	assert.Equal(t, "fixed", first.Layout)
	cell := first.Rows[0].Cells[0]
	assert.Equal(t, 9360, cell.Width)
	assert.Equal(t, "FFF8E1", cell.Shading)
	assert.Equal(t, docx.ParsedBorder{Val: "single", Size: 36, Color: "F9A825"}, cell.Borders.Left)
	for _, b := range []docx.ParsedBorder{cell.Borders.Top, cell.Borders.Right, cell.Borders.Bottom} {
		assert.Equal(t, docx.ParsedBorder{Val: "single", Size: 4, Color: "F9A825"}, b)
	}
	require.Len(t, cell.Paragraphs, 2)
	title := cell.Paragraphs[0].Runs[0]
	assert.Equal(t, docx.ParsedRun{Text: "Note", Bold: true, Size: 11, Color: "5D4037"}, title)
	body := cell.Paragraphs[1].Runs[0]
	assert.Equal(t, docx.ParsedRun{Text: "Mind the gap", Size: 10, Color: "5D4037"}, body)

	second := tables[1].Rows[0].Cells[0]
	assert.Equal(t, "E3F2FD", second.Shading, "unknown style falls back to info")
	require.Len(t, second.Paragraphs, 1)
	assert.Equal(t, "Body only", second.Text)
}

func TestHighlightBox(t *testing.T) {
	reader, _ := renderAll(t, nil, &model.HighlightBox{Style: "accent", Text: "42% faster"})

	tables := reader.Tables()
	require.Len(t, tables, 1)
	cell := tables[0].Rows[0].Cells[0]
	assert.Equal(t, "F5F0FA", cell.Shading)
	want := docx.ParsedBorder{Val: "single", Size: 12, Color: "6B6899"}
	assert.Equal(t, docx.ParsedBorders{Top: want, Left: want, Bottom: want, Right: want}, cell.Borders)
	p := cell.Paragraphs[0]
	assert.Equal(t, "center", p.Alignment)
	assert.Equal(t, docx.ParsedRun{Text: "42% faster", Bold: true, Size: 14, Color: "12002A"}, p.Runs[0])
}

func TestMetrics(t *testing.T) {
	reader, _ := renderAll(t, nil,
		&model.MetricRow{Metrics: []model.Metric{
			{Value: "12", Label: "Sites", Style: "primary"},
			{Value: "98%", Label: "Uptime", Style: "success"},
			{Value: "3", Label: "Open risks", Style: "warning"},
		}},
		&model.MetricRow{},
	)

	tables := reader.Tables()
	require.Len(t, tables, 1, "an empty metric row renders nothing")
	cells := tables[0].Rows[0].Cells
	require.Len(t, cells, 3)

	borders := []string{"4A4778", "2E7D32", "F9A825"}
	for i, cell := range cells {
		assert.Equal(t, docx.Twips(6.5/3), cell.Width)
		assert.Equal(t, 8, cell.Borders.Top.Size)
		assert.Equal(t, borders[i], cell.Borders.Left.Color)
		require.Len(t, cell.Paragraphs, 2)
		value := cell.Paragraphs[0].Runs[0]
		assert.True(t, value.Bold)
		assert.Equal(t, 24.0, value.Size)
		assert.Equal(t, borders[i], value.Color)
		assert.Equal(t, 10.0, cell.Paragraphs[1].Runs[0].Size)
		assert.Equal(t, "center", cell.Paragraphs[1].Alignment)
	}
	assert.Equal(t, "98%\nUptime", cells[1].Text)
}

func TestImage(t *testing.T) {
	path := writePNG(t, 300, 150)
	reader, r := renderAll(t, nil, &model.Image{Path: path, Width: 3, Caption: "Figure 1"})

	paras := reader.Paragraphs()
	require.Len(t, paras, 2)
	require.Len(t, paras[0].Images, 1)
	assert.Equal(t, "center", paras[0].Alignment)
	assert.Equal(t, int64(3*docx.EMUsPerInch), paras[0].Images[0].Width)
	assert.Equal(t, int64(3*docx.EMUsPerInch/2), paras[0].Images[0].Height)

	caption := paras[1]
	assert.Equal(t, "center", caption.Alignment)
	assert.Equal(t, docx.ParsedRun{Text: "Figure 1", Italic: true, Size: 9, Color: "4A4778"}, caption.Runs[0])
	assert.Empty(t, r.Notices())
}

func TestImageDegraded(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0o644))
	missing := filepath.Join(t.TempDir(), "missing.png")

	reader, r := renderAll(t, nil,
		&model.Image{Path: missing, Width: 6.5, Caption: "never shown"},
		&model.Image{Path: broken, Width: 6.5},
		&model.Paragraph{Text: "after"},
	)

	paras := reader.Paragraphs()
	require.Len(t, paras, 3)
	assert.Equal(t, "[Image not found: "+missing+"]", paras[0].Text)
	assert.Equal(t, "Normal", paras[0].StyleID)
	assert.Equal(t, "[Image could not be embedded: "+broken+"]", paras[1].Text)
	assert.Equal(t, "after", paras[2].Text)
	assert.Len(t, r.Notices(), 2)
}

func TestDiagramOutcomes(t *testing.T) {
	const def = "graph TD\n  A-->B"
	figure := writePNG(t, 100, 50)

	tests := []struct {
		name    string
		result  diagram.Result
		texts   []string
		notices int
	}{
		{"empty", diagram.Result{Outcome: diagram.Empty}, nil, 0},
		{"failed", diagram.Result{Outcome: diagram.Failed, Message: "boom"},
			[]string{NoticeDiagramFailed, "graph TD\n  A-->B", "Flow"}, 1},
		{"timed out", diagram.Result{Outcome: diagram.TimedOut}, []string{NoticeDiagramTimedOut}, 1},
		{"tool missing", diagram.Result{Outcome: diagram.ToolMissing}, []string{NoticeDiagramNoTool}, 1},
		{"rendered", diagram.Result{Outcome: diagram.Rendered, Path: figure}, []string{"", "Flow"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubDiagrams{result: tt.result}
			reader, r := renderAll(t, stub, &model.Diagram{Definition: def, Width: 2, Caption: "Flow"})

			var texts []string
			for _, p := range reader.Paragraphs() {
				texts = append(texts, p.Text)
			}
			assert.Equal(t, tt.texts, texts)
			assert.Len(t, r.Notices(), tt.notices)
			assert.Equal(t, 1, stub.calls)
		})
	}
}

func TestDiagramFailureFormatting(t *testing.T) {
	stub := &stubDiagrams{result: diagram.Result{Outcome: diagram.Failed, Message: "bad"}}
	reader, _ := renderAll(t, stub, &model.Diagram{Definition: "pie\n  \"a\": 1", Width: 6.5})

	paras := reader.Paragraphs()
	require.Len(t, paras, 2)
	assert.Equal(t, docx.ParsedRun{Text: NoticeDiagramFailed, Bold: true, Size: 10}, paras[0].Runs[0])
	code := paras[1].Runs[0]
	assert.Equal(t, "Courier New", code.Font)
	assert.Equal(t, 8.0, code.Size)
	assert.Equal(t, "333333", code.Color)
	assert.Equal(t, "pie\n  \"a\": 1", paras[1].Text)
}

func TestUnknownItemRendersNothing(t *testing.T) {
	reader, r := renderAll(t, nil, &model.Unknown{Tag: "carousel"})
	assert.Empty(t, reader.Blocks())
	assert.Empty(t, r.Notices())
}

func TestRenderCanceled(t *testing.T) {
	doc := newDoc(t)
	r := New(doc, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Render(ctx, &model.Paragraph{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, doc.Blocks())
}

func TestOrderPreserved(t *testing.T) {
	reader, _ := renderAll(t, nil,
		&model.Paragraph{Text: "one"},
		&model.HighlightBox{Style: "primary", Text: "two"},
		&model.Paragraph{Text: "three"},
	)

	var seq []string
	for _, b := range reader.Blocks() {
		switch {
		case b.Table != nil:
			seq = append(seq, b.Table.ToText())
		default:
			seq = append(seq, b.Paragraph.Text)
		}
	}
	assert.Equal(t, []string{"one", "two", "", "three"}, seq)
}

func TestStyleFallbacksLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	doc, err := docx.Parse(docxtest.Build(t, docxtest.Template{
		Styles: []docxtest.Style{{Type: "paragraph", ID: "Normal", Name: "Normal"}},
	}))
	require.NoError(t, err)
	r := New(doc, nil, zap.New(core))

	for _, it := range []model.Item{
		&model.Callout{Style: "neon", Text: "x"},
		&model.HighlightBox{Style: "info", Text: "y"},
		&model.MetricRow{Metrics: []model.Metric{{Value: "1", Label: "a"}}},
		&model.Table{Headers: []string{"h"}},
	} {
		require.NoError(t, r.Render(context.Background(), it))
	}

	unknown := logs.FilterMessage("unknown color style, using info").All()
	require.Len(t, unknown, 1, "empty and predefined names are not reported")
	assert.Equal(t, "neon", unknown[0].ContextMap()["style"])
	assert.Equal(t, 1, logs.FilterMessage("template lacks table style").Len())
}
