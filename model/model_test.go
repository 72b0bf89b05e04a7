package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemKindRoundTrip(t *testing.T) {
	kinds := []ItemKind{
		KindParagraph, KindBullets, KindNumbered, KindTable, KindHeading,
		KindCallout, KindHighlightBox, KindMetrics, KindImage, KindDiagram,
	}
	for _, k := range kinds {
		t.Run(k.String(), func(t *testing.T) {
			assert.Equal(t, k, ParseItemKind(k.String()))
		})
	}
}

func TestParseItemKind(t *testing.T) {
	tests := []struct {
		tag  string
		want ItemKind
	}{
		{"", KindParagraph},
		{"diagram", KindDiagram},
		{"mermaid", KindDiagram},
		{"timeline", KindUnknown},
		{"Paragraph", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseItemKind(tt.tag))
		})
	}
}

func TestItemKinds(t *testing.T) {
	items := map[Item]ItemKind{
		&Paragraph{}:    KindParagraph,
		&BulletList{}:   KindBullets,
		&NumberedList{}: KindNumbered,
		&Table{}:        KindTable,
		&Heading{}:      KindHeading,
		&Callout{}:      KindCallout,
		&HighlightBox{}: KindHighlightBox,
		&MetricRow{}:    KindMetrics,
		&Image{}:        KindImage,
		&Diagram{}:      KindDiagram,
		&Unknown{}:      KindUnknown,
	}
	for item, want := range items {
		assert.Equal(t, want, item.Kind())
	}
}

func TestTableColumns(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  int
	}{
		{"headers win", Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "2", "3"}}}, 2},
		{"widest row", Table{Rows: [][]string{{"1"}, {"1", "2", "3"}}}, 3},
		{"empty", Table{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.Columns())
		})
	}
}

func TestHeaderOverride(t *testing.T) {
	d := Description{Title: "Annual Review"}
	assert.Equal(t, "Annual Review", d.HeaderOverride())

	d.HeaderText = "Board Pack"
	assert.Equal(t, "Board Pack", d.HeaderOverride())

	d.HeaderText, d.HeaderTextSet = "", true
	assert.Empty(t, d.HeaderOverride(), "an explicit empty header text hides the title")
}

func TestItemCount(t *testing.T) {
	d := Description{Sections: []Section{
		{Items: []Item{&Paragraph{}, &Table{}}},
		{},
		{Items: []Item{&Image{}}},
	}}
	assert.Equal(t, 3, d.ItemCount())
}
