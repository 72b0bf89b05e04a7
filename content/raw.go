package content

import (
	"fmt"
	"strconv"

	"github.com/tsawler/docweave/model"
)

const defaultLevel = 2

// rawDescription mirrors the on-disk shape of a content description.
type rawDescription struct {
	Title        string       `json:"title" yaml:"title"`
	Subtitle     string       `json:"subtitle" yaml:"subtitle"`
	Client       string       `json:"client" yaml:"client"`
	Date         string       `json:"date" yaml:"date"`
	Confidential bool         `json:"confidential" yaml:"confidential"`
	Type         string       `json:"type" yaml:"type"`
	HeaderText   *string      `json:"header_text" yaml:"header_text"`
	FooterText   string       `json:"footer_text" yaml:"footer_text"`
	Sections     []rawSection `json:"sections" yaml:"sections"`
}

type rawSection struct {
	Heading string    `json:"heading" yaml:"heading"`
	Level   *int      `json:"level" yaml:"level"`
	Content []rawItem `json:"content" yaml:"content"`
}

// rawItem is the union of every item kind's fields. Items holds list
// entries for bullets/numbered and metric objects for metrics.
type rawItem struct {
	Type       string   `json:"type" yaml:"type"`
	Text       string   `json:"text" yaml:"text"`
	Title      string   `json:"title" yaml:"title"`
	Style      string   `json:"style" yaml:"style"`
	Level      *int     `json:"level" yaml:"level"`
	Items      []any    `json:"items" yaml:"items"`
	Headers    []any    `json:"headers" yaml:"headers"`
	Rows       [][]any  `json:"rows" yaml:"rows"`
	Path       string   `json:"path" yaml:"path"`
	Width      *float64 `json:"width" yaml:"width"`
	Caption    string   `json:"caption" yaml:"caption"`
	Definition string   `json:"definition" yaml:"definition"`
}

func (r *rawDescription) toModel() *model.Description {
	d := &model.Description{
		Title:        r.Title,
		Subtitle:     r.Subtitle,
		Client:       r.Client,
		Date:         r.Date,
		Confidential: r.Confidential,
		Type:         r.Type,
		FooterText:   r.FooterText,
		Sections:     make([]model.Section, 0, len(r.Sections)),
	}
	if r.HeaderText != nil {
		d.HeaderText, d.HeaderTextSet = *r.HeaderText, true
	}
	for _, rs := range r.Sections {
		s := model.Section{
			Heading: rs.Heading,
			Level:   intOr(rs.Level, defaultLevel),
			Items:   make([]model.Item, 0, len(rs.Content)),
		}
		for i := range rs.Content {
			s.Items = append(s.Items, rs.Content[i].toModel())
		}
		d.Sections = append(d.Sections, s)
	}
	return d
}

func (ri *rawItem) toModel() model.Item {
	switch model.ParseItemKind(ri.Type) {
	case model.KindParagraph:
		return &model.Paragraph{Text: ri.Text}
	case model.KindBullets:
		return &model.BulletList{Items: texts(ri.Items)}
	case model.KindNumbered:
		return &model.NumberedList{Items: texts(ri.Items)}
	case model.KindTable:
		t := &model.Table{Headers: texts(ri.Headers), Rows: make([][]string, 0, len(ri.Rows))}
		for _, row := range ri.Rows {
			t.Rows = append(t.Rows, texts(row))
		}
		return t
	case model.KindHeading:
		return &model.Heading{Text: ri.Text, Level: intOr(ri.Level, defaultLevel)}
	case model.KindCallout:
		return &model.Callout{Style: stringOr(ri.Style, "info"), Title: ri.Title, Text: ri.Text}
	case model.KindHighlightBox:
		return &model.HighlightBox{Style: stringOr(ri.Style, "primary"), Text: ri.Text}
	case model.KindMetrics:
		return &model.MetricRow{Metrics: metrics(ri.Items)}
	case model.KindImage:
		return &model.Image{Path: ri.Path, Width: floatOr(ri.Width, model.DefaultWidth), Caption: ri.Caption}
	case model.KindDiagram:
		return &model.Diagram{Definition: ri.Definition, Width: floatOr(ri.Width, model.DefaultWidth), Caption: ri.Caption}
	default:
		return &model.Unknown{Tag: ri.Type}
	}
}

// metrics converts decoded metric objects. Entries that are not objects
// are skipped.
func metrics(items []any) []model.Metric {
	out := make([]model.Metric, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, model.Metric{
			Value: scalar(m["value"]),
			Label: scalar(m["label"]),
			Style: stringOr(scalar(m["style"]), "primary"),
		})
	}
	return out
}

func texts(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = scalar(v)
	}
	return out
}

// scalar renders a decoded scalar as text. Whole floats print without a
// fractional part, so a JSON 42 becomes "42".
func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
