package docx

import (
	"strconv"
	"strings"
)

// ParsedTable represents a parsed table with resolved structure.
type ParsedTable struct {
	Rows      []ParsedTableRow
	ColWidths []int // Grid column widths in twips
	StyleID   string
	Layout    string // fixed, autofit or empty
}

// ToText returns a plain text representation of the table: one line per
// row, cells separated by tabs.
func (pt *ParsedTable) ToText() string {
	var sb strings.Builder
	for i, row := range pt.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		for j, cell := range row.Cells {
			if j > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
		}
	}
	return sb.String()
}

// ColCount returns the number of cells in the widest row.
func (pt *ParsedTable) ColCount() int {
	count := 0
	for _, row := range pt.Rows {
		if len(row.Cells) > count {
			count = len(row.Cells)
		}
	}
	return count
}

// ParsedTableRow represents a parsed table row.
type ParsedTableRow struct {
	Cells []ParsedTableCell
}

// ParsedTableCell represents a parsed table cell.
type ParsedTableCell struct {
	Paragraphs []ParsedParagraph
	Text       string // Paragraph texts joined by newlines

	Width   int    // Cell width in twips (0 = auto)
	Shading string // Background color (hex), empty when unset or auto
	Borders ParsedBorders
}

// ParsedBorders holds the four cell borders.
type ParsedBorders struct {
	Top, Left, Bottom, Right ParsedBorder
}

// ParsedBorder is a single cell border. Size is in eighths of a point.
type ParsedBorder struct {
	Val   string
	Size  int
	Color string
}

// parseTable converts a table XML element into a ParsedTable.
func parseTable(tbl tableXML) ParsedTable {
	parsed := ParsedTable{
		StyleID: tbl.Properties.Style.Val,
		Layout:  tbl.Properties.Layout.Type,
	}
	for _, col := range tbl.Grid.Cols {
		parsed.ColWidths = append(parsed.ColWidths, atoi(col.W))
	}
	for _, row := range tbl.Rows {
		var parsedRow ParsedTableRow
		for _, cell := range row.Cells {
			parsedRow.Cells = append(parsedRow.Cells, parseCell(cell))
		}
		parsed.Rows = append(parsed.Rows, parsedRow)
	}
	return parsed
}

// parseCell parses a table cell.
func parseCell(cell tableCellXML) ParsedTableCell {
	props := cell.Properties
	parsed := ParsedTableCell{
		Borders: ParsedBorders{
			Top:    parseBorder(props.Borders.Top),
			Left:   parseBorder(props.Borders.Left),
			Bottom: parseBorder(props.Borders.Bottom),
			Right:  parseBorder(props.Borders.Right),
		},
	}
	if props.Width.Type == "dxa" || props.Width.Type == "" {
		parsed.Width = atoi(props.Width.W)
	}
	if props.Shading.Fill != "" && props.Shading.Fill != "auto" {
		parsed.Shading = props.Shading.Fill
	}

	var textParts []string
	for _, p := range cell.Paragraphs {
		para := parseParagraph(p)
		parsed.Paragraphs = append(parsed.Paragraphs, para)
		if para.Text != "" {
			textParts = append(textParts, para.Text)
		}
	}
	parsed.Text = strings.Join(textParts, "\n")

	return parsed
}

func parseBorder(b borderXML) ParsedBorder {
	return ParsedBorder{Val: b.Val, Size: atoi(b.Sz), Color: b.Color}
}

// atoi parses an integer attribute, returning 0 when absent or malformed.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
