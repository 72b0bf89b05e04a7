// Package render appends content items to the body of a Word document.
//
// Each item becomes at most one visible block (lists: one paragraph per
// entry) followed, for tables and boxes, by an empty spacer paragraph.
// Missing images and failed diagrams degrade to an inline notice; they are
// recorded as Notices and never stop later items from rendering.
package render

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/tsawler/docweave/diagram"
	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/model"
	"github.com/tsawler/docweave/palette"
)

// Template style names.
const (
	StyleNormal   = "Normal"
	StyleBullet   = "Bullet 1"
	StyleNumbered = "List Paragraph"
	StyleSubtitle = "Subtitle"
	StyleTable    = "Grid Table 4 Accent 6"
)

// Code listings in diagram fallbacks.
const (
	codeFont     = "Courier New"
	codeFontSize = 8
)

// Border sizes in eighths of a point.
const (
	calloutAccentBorder = 36
	calloutThinBorder   = 4
	highlightBorder     = 12
	metricBorder        = 8
)

// HeadingStyle returns the paragraph style for a heading level. Levels
// outside 1-4 use Heading 1.
func HeadingStyle(level int) string {
	if level < 1 || level > 4 {
		level = 1
	}
	return "Heading " + strconv.Itoa(level)
}

// DiagramRenderer turns a diagram definition into an image.
type DiagramRenderer interface {
	Render(ctx context.Context, definition string, width float64) diagram.Result
}

// Notice records an item that rendered as a degraded placeholder.
type Notice struct {
	Kind    model.ItemKind
	Message string
}

// Renderer appends items to one document.
type Renderer struct {
	doc      *docx.Document
	diagrams DiagramRenderer
	logger   *zap.Logger
	notices  []Notice
}

// New returns a Renderer writing into doc. A nil diagrams uses the default
// converter; a nil logger disables logging.
func New(doc *docx.Document, diagrams DiagramRenderer, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if diagrams == nil {
		diagrams = diagram.NewRenderer(logger)
	}
	return &Renderer{doc: doc, diagrams: diagrams, logger: logger}
}

// Notices returns the degraded items seen so far, in order.
func (r *Renderer) Notices() []Notice {
	return r.notices
}

func (r *Renderer) notice(kind model.ItemKind, msg string) {
	r.notices = append(r.notices, Notice{Kind: kind, Message: msg})
}

// Render appends one item at the end of the body. It returns an error only
// when ctx is done; item-level problems degrade to inline notices.
func (r *Renderer) Render(ctx context.Context, item model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	switch it := item.(type) {
	case *model.Paragraph:
		r.doc.AddText(StyleNormal, it.Text, docx.Font{})
	case *model.BulletList:
		for _, entry := range it.Items {
			r.doc.AddText(StyleBullet, entry, docx.Font{})
		}
	case *model.NumberedList:
		for i, entry := range it.Items {
			r.doc.AddText(StyleNumbered, fmt.Sprintf("%d. %s", i+1, entry), docx.Font{})
		}
	case *model.Table:
		r.table(it)
	case *model.Heading:
		r.Heading(it.Text, it.Level)
	case *model.Callout:
		r.callout(it)
	case *model.HighlightBox:
		r.highlight(it)
	case *model.MetricRow:
		r.metrics(it)
	case *model.Image:
		r.image(it.Path, it.Width, it.Caption, model.KindImage)
	case *model.Diagram:
		r.diagram(ctx, it)
	case *model.Unknown:
		r.logger.Debug("skipping unknown item", zap.String("type", it.Tag))
	default:
		r.logger.Debug("skipping unsupported item", zap.String("go_type", fmt.Sprintf("%T", item)))
	}
	return nil
}

// Heading appends a heading paragraph.
func (r *Renderer) Heading(text string, level int) {
	r.doc.AddText(HeadingStyle(level), text, docx.Font{})
}

func (r *Renderer) spacer() {
	r.doc.AddParagraph("")
}

func (r *Renderer) table(t *model.Table) {
	cols := t.Columns()
	if cols == 0 {
		r.logger.Debug("skipping table without columns")
		return
	}
	primary := palette.Lookup(string(palette.Primary))
	if !r.doc.Styles.Has(StyleTable) {
		r.logger.Debug("template lacks table style", zap.String("style", StyleTable))
	}

	tbl := r.doc.AddTable(len(t.Rows)+1, cols, StyleTable)
	for c := 0; c < cols; c++ {
		cell := tbl.Cell(0, c).SetShading(primary.Border)
		p := cell.Paragraph().SetAlignment(docx.AlignCenter)
		if c < len(t.Headers) {
			p.AddRun(t.Headers[c], docx.Font{Bold: true, Color: palette.White})
		}
	}
	for i, row := range t.Rows {
		fill := primary.Background
		if i%2 == 1 {
			fill = palette.White
		}
		for c := 0; c < cols; c++ {
			cell := tbl.Cell(i+1, c).SetShading(fill)
			if c < len(row) {
				cell.Paragraph().AddRun(row[c], docx.Font{})
			}
		}
	}
	r.spacer()
}

// lookup resolves a color style, noting names outside the predefined set.
func (r *Renderer) lookup(name string) palette.Style {
	if name != "" && !palette.Known(name) {
		r.logger.Debug("unknown color style, using info",
			zap.String("style", name), zap.Any("known", palette.Names()))
	}
	return palette.Lookup(name)
}

// box appends a fixed-layout single-cell table filling the content width.
func (r *Renderer) box(style palette.Style, borders docx.Borders) *docx.Cell {
	tbl := r.doc.AddTable(1, 1, "").SetFixedLayout()
	return tbl.Cell(0, 0).
		SetWidth(model.DefaultWidth).
		SetBorders(borders).
		SetShading(style.Background)
}

func (r *Renderer) callout(c *model.Callout) {
	style := r.lookup(c.Style)
	thin := docx.Border{Val: "single", Size: calloutThinBorder, Color: style.Border}
	cell := r.box(style, docx.Borders{
		Top:    thin,
		Left:   docx.Border{Val: "single", Size: calloutAccentBorder, Color: style.Border},
		Bottom: thin,
		Right:  thin,
	})

	body := docx.Font{Size: 10, Color: style.Text}
	if c.Title != "" {
		cell.Paragraph().AddRun(c.Title, docx.Font{Bold: true, Size: 11, Color: style.Text})
		cell.AddParagraph("").AddRun(c.Text, body)
	} else {
		cell.Paragraph().AddRun(c.Text, body)
	}
	r.spacer()
}

func (r *Renderer) highlight(h *model.HighlightBox) {
	style := r.lookup(h.Style)
	cell := r.box(style, docx.UniformBorders(highlightBorder, style.Border))
	cell.Paragraph().
		SetAlignment(docx.AlignCenter).
		AddRun(h.Text, docx.Font{Bold: true, Size: 14, Color: style.Text})
	r.spacer()
}

func (r *Renderer) metrics(m *model.MetricRow) {
	n := len(m.Metrics)
	if n == 0 {
		r.logger.Debug("skipping empty metric row")
		return
	}
	tbl := r.doc.AddTable(1, n, "").SetFixedLayout()
	width := model.DefaultWidth / float64(n)
	for i, metric := range m.Metrics {
		style := r.lookup(metric.Style)
		cell := tbl.Cell(0, i).
			SetWidth(width).
			SetBorders(docx.UniformBorders(metricBorder, style.Border)).
			SetShading(style.Background)
		cell.Paragraph().
			SetAlignment(docx.AlignCenter).
			AddRun(metric.Value, docx.Font{Bold: true, Size: 24, Color: style.Border})
		cell.AddParagraph("").
			SetAlignment(docx.AlignCenter).
			AddRun(metric.Label, docx.Font{Size: 10, Color: style.Text})
	}
	r.spacer()
}

// image embeds the file at path, centered, with an optional caption.
func (r *Renderer) image(path string, width float64, caption string, kind model.ItemKind) {
	if width <= 0 {
		width = model.DefaultWidth
	}
	if _, err := os.Stat(path); err != nil {
		msg := fmt.Sprintf("[Image not found: %s]", path)
		r.logger.Warn("image not found", zap.String("path", path))
		r.doc.AddText(StyleNormal, msg, docx.Font{})
		r.notice(kind, msg)
		return
	}

	p, err := r.doc.AddPicture(path, width)
	if err != nil {
		msg := fmt.Sprintf("[Image could not be embedded: %s]", path)
		r.logger.Warn("image could not be embedded", zap.String("path", path), zap.Error(err))
		r.doc.AddText(StyleNormal, msg, docx.Font{})
		r.notice(kind, msg)
		return
	}
	p.SetAlignment(docx.AlignCenter)
	r.caption(caption)
}

func (r *Renderer) caption(text string) {
	if text == "" {
		return
	}
	r.doc.AddParagraph("").
		SetAlignment(docx.AlignCenter).
		AddRun(text, docx.Font{Italic: true, Size: 9, Color: palette.BrandPurple})
}

// Diagram fallback notices.
const (
	NoticeDiagramFailed   = "[Diagram could not be rendered]"
	NoticeDiagramTimedOut = "[Diagram rendering timed out]"
	NoticeDiagramNoTool   = "[Diagram rendering requires Node.js/npx]"
)

func (r *Renderer) diagram(ctx context.Context, d *model.Diagram) {
	res := r.diagrams.Render(ctx, d.Definition, d.Width)
	defer res.Close()

	bold := docx.Font{Bold: true, Size: 10}
	switch res.Outcome {
	case diagram.Empty:
		r.logger.Warn("empty diagram definition, skipping")
	case diagram.Rendered:
		r.image(res.Path, d.Width, d.Caption, model.KindDiagram)
	case diagram.Failed:
		r.logger.Warn("diagram rendering failed", zap.String("error", res.Message))
		r.doc.AddText("", NoticeDiagramFailed, bold)
		r.doc.AddText("", d.Definition, docx.Font{Name: codeFont, Size: codeFontSize, Color: palette.CodeGray})
		r.caption(d.Caption)
		r.notice(model.KindDiagram, NoticeDiagramFailed)
	case diagram.TimedOut:
		r.logger.Warn("diagram rendering timed out")
		r.doc.AddText("", NoticeDiagramTimedOut, bold)
		r.notice(model.KindDiagram, NoticeDiagramTimedOut)
	case diagram.ToolMissing:
		r.logger.Warn("diagram converter not found; install Node.js to render diagrams")
		r.doc.AddText("", NoticeDiagramNoTool, bold)
		r.notice(model.KindDiagram, NoticeDiagramNoTool)
	}
}
