package model

// DefaultWidth is the default width, in inches, of embedded images and
// diagrams. It equals the content width of a Letter page with 1" margins.
const DefaultWidth = 6.5

// ItemKind identifies the type of a content item.
type ItemKind int

const (
	KindUnknown ItemKind = iota
	KindParagraph
	KindBullets
	KindNumbered
	KindTable
	KindHeading
	KindCallout
	KindHighlightBox
	KindMetrics
	KindImage
	KindDiagram
)

// String returns the wire tag of the kind.
func (k ItemKind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindBullets:
		return "bullets"
	case KindNumbered:
		return "numbered"
	case KindTable:
		return "table"
	case KindHeading:
		return "heading"
	case KindCallout:
		return "callout"
	case KindHighlightBox:
		return "highlight_box"
	case KindMetrics:
		return "metrics"
	case KindImage:
		return "image"
	case KindDiagram:
		return "mermaid"
	default:
		return "unknown"
	}
}

// ParseItemKind maps a wire tag to its kind. An empty tag is a paragraph;
// "diagram" is accepted as an alias of "mermaid".
func ParseItemKind(tag string) ItemKind {
	switch tag {
	case "", "paragraph":
		return KindParagraph
	case "bullets":
		return KindBullets
	case "numbered":
		return KindNumbered
	case "table":
		return KindTable
	case "heading":
		return KindHeading
	case "callout":
		return KindCallout
	case "highlight_box":
		return KindHighlightBox
	case "metrics":
		return KindMetrics
	case "image":
		return KindImage
	case "mermaid", "diagram":
		return KindDiagram
	default:
		return KindUnknown
	}
}

// Item is one typed unit of body content.
type Item interface {
	Kind() ItemKind
}

// Paragraph is a block of body text.
type Paragraph struct {
	Text string
}

// BulletList renders one bulleted block per entry.
type BulletList struct {
	Items []string
}

// NumberedList renders one block per entry prefixed "1. ", "2. ", ...
type NumberedList struct {
	Items []string
}

// Table is a header row followed by data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Columns returns the number of grid columns: the header count, or the
// widest row when there are no headers.
func (t *Table) Columns() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// Heading is an inline heading. Level is 1-4.
type Heading struct {
	Text  string
	Level int
}

// Callout is a shaded box with a heavy left border and optional title.
type Callout struct {
	Style string
	Title string
	Text  string
}

// HighlightBox is a bordered box with centered emphasized text.
type HighlightBox struct {
	Style string
	Text  string
}

// Metric is one tile of a MetricRow.
type Metric struct {
	Value string
	Label string
	Style string
}

// MetricRow lays its metrics out as equal-width tiles in a single row.
type MetricRow struct {
	Metrics []Metric
}

// Image embeds an image file. Width is in inches.
type Image struct {
	Path    string
	Width   float64
	Caption string
}

// Diagram is a textual diagram definition rendered to an image by an
// external converter. Width is in inches.
type Diagram struct {
	Definition string
	Width      float64
	Caption    string
}

// Unknown is an item whose kind was not recognised. Tag is the original
// wire tag.
type Unknown struct {
	Tag string
}

func (*Paragraph) Kind() ItemKind    { return KindParagraph }
func (*BulletList) Kind() ItemKind   { return KindBullets }
func (*NumberedList) Kind() ItemKind { return KindNumbered }
func (*Table) Kind() ItemKind        { return KindTable }
func (*Heading) Kind() ItemKind      { return KindHeading }
func (*Callout) Kind() ItemKind      { return KindCallout }
func (*HighlightBox) Kind() ItemKind { return KindHighlightBox }
func (*MetricRow) Kind() ItemKind    { return KindMetrics }
func (*Image) Kind() ItemKind        { return KindImage }
func (*Diagram) Kind() ItemKind      { return KindDiagram }
func (*Unknown) Kind() ItemKind      { return KindUnknown }
