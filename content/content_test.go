package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/docweave/model"
)

const sampleJSON = `{
  "title": "Platform Assessment",
  "client": "Acme Corp",
  "date": "January 2025",
  "confidential": true,
  "type": "Assessment",
  "sections": [
    {
      "heading": "Summary",
      "level": 1,
      "content": [
        {"text": "No type means paragraph."},
        {"type": "bullets", "items": ["One", "Two"]},
        {"type": "numbered", "items": ["Step", 2]},
        {"type": "table", "headers": ["Col1", "Col2"], "rows": [["A", 1.5], ["C"]]},
        {"type": "heading", "text": "Inline"},
        {"type": "callout", "title": "Note", "text": "Careful"},
        {"type": "highlight_box", "text": "42% faster"},
        {"type": "metrics", "items": [{"value": 42, "label": "Apps"}, {"value": "3", "label": "Teams", "style": "accent"}, "junk"]},
        {"type": "image", "path": "chart.png", "caption": "Chart"},
        {"type": "mermaid", "definition": "graph TD\n  A-->B", "width": 4},
        {"type": "timeline", "text": "ignored"}
      ]
    },
    {"heading": "Next"}
  ]
}`

func TestDecodeJSON(t *testing.T) {
	d, err := Decode(strings.NewReader(sampleJSON), JSON)
	require.NoError(t, err)

	assert.Equal(t, "Platform Assessment", d.Title)
	assert.True(t, d.Confidential)
	assert.Equal(t, "Assessment", d.Type)
	require.Len(t, d.Sections, 2)
	assert.Equal(t, 1, d.Sections[0].Level)
	assert.Equal(t, 2, d.Sections[1].Level, "section level defaults to 2")
	assert.Empty(t, d.Sections[1].Items)

	want := []model.Item{
		&model.Paragraph{Text: "No type means paragraph."},
		&model.BulletList{Items: []string{"One", "Two"}},
		&model.NumberedList{Items: []string{"Step", "2"}},
		&model.Table{Headers: []string{"Col1", "Col2"}, Rows: [][]string{{"A", "1.5"}, {"C"}}},
		&model.Heading{Text: "Inline", Level: 2},
		&model.Callout{Style: "info", Title: "Note", Text: "Careful"},
		&model.HighlightBox{Style: "primary", Text: "42% faster"},
		&model.MetricRow{Metrics: []model.Metric{
			{Value: "42", Label: "Apps", Style: "primary"},
			{Value: "3", Label: "Teams", Style: "accent"},
		}},
		&model.Image{Path: "chart.png", Width: model.DefaultWidth, Caption: "Chart"},
		&model.Diagram{Definition: "graph TD\n  A-->B", Width: 4},
		&model.Unknown{Tag: "timeline"},
	}
	if diff := cmp.Diff(want, d.Sections[0].Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
title: Quarterly Report
type: memo
sections:
  - heading: Overview
    content:
      - type: table
        headers: [Name, Count]
        rows:
          - [Widgets, 12]
      - type: diagram
        definition: |
          graph LR
            A --> B
`
	d, err := Decode(strings.NewReader(src), YAML)
	require.NoError(t, err)
	require.Len(t, d.Sections, 1)
	require.Len(t, d.Sections[0].Items, 2)

	table, ok := d.Sections[0].Items[0].(*model.Table)
	require.True(t, ok)
	assert.Equal(t, [][]string{{"Widgets", "12"}}, table.Rows)

	diagram, ok := d.Sections[0].Items[1].(*model.Diagram)
	require.True(t, ok)
	assert.Equal(t, "graph LR\n  A --> B\n", diagram.Definition)
	assert.Equal(t, model.DefaultWidth, diagram.Width)
}

func TestDecodeEmptyYAML(t *testing.T) {
	d, err := Decode(strings.NewReader(""), YAML)
	require.NoError(t, err)
	assert.Empty(t, d.Sections)
}

func TestDecodeHeaderText(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		src    string
		want   string
	}{
		{"missing", JSON, `{"title": "Plan"}`, "Plan"},
		{"given", JSON, `{"title": "Plan", "header_text": "Board"}`, "Board"},
		{"explicit empty", JSON, `{"title": "Plan", "header_text": ""}`, ""},
		{"yaml explicit empty", YAML, "title: Plan\nheader_text: \"\"\n", ""},
		{"yaml missing", YAML, "title: Plan\n", "Plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(strings.NewReader(tt.src), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.HeaderOverride())
		})
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"title": `), JSON)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"content.json", JSON, false},
		{"CONTENT.JSON", JSON, false},
		{"content.yaml", YAML, false},
		{"content.yml", YAML, false},
		{"content.xlsx", 0, true},
		{"content", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", d.Client)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
