package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Font describes direct run formatting. Zero fields are left unset.
type Font struct {
	Name   string
	Size   float64 // Points
	Bold   bool
	Italic bool
	Color  string // Hex RGB without '#'
}

// Paragraph wraps a w:p element.
type Paragraph struct {
	el *etree.Element
}

// WrapParagraph returns a Paragraph for an existing w:p element.
func WrapParagraph(el *etree.Element) *Paragraph {
	return &Paragraph{el: el}
}

// Element returns the underlying w:p element.
func (p *Paragraph) Element() *etree.Element {
	return p.el
}

// Text returns the paragraph's visible text.
func (p *Paragraph) Text() string {
	return ParagraphText(p.el)
}

// newParagraph builds a detached paragraph. The style is referenced only
// when the style sheet defines it; otherwise the paragraph inherits the
// document default.
func newParagraph(styles *StyleSheet, style string) *etree.Element {
	p := etree.NewElement("w:p")
	if id, ok := styles.ID(style); ok {
		pPr := p.CreateElement("w:pPr")
		pPr.CreateElement("w:pStyle").CreateAttr("w:val", id)
	}
	return p
}

// AppendParagraph adds an unstyled paragraph as the last child of parent,
// typically a header or footer root.
func AppendParagraph(parent *etree.Element) *Paragraph {
	return &Paragraph{el: parent.CreateElement("w:p")}
}

// AddParagraph appends a paragraph with the given style to the body.
func (d *Document) AddParagraph(style string) *Paragraph {
	p := newParagraph(d.Styles, style)
	d.appendBlock(p)
	return &Paragraph{el: p}
}

// AddText appends a paragraph holding a single run.
func (d *Document) AddText(style, text string, font Font) *Paragraph {
	p := d.AddParagraph(style)
	if text != "" {
		p.AddRun(text, font)
	}
	return p
}

// properties returns the paragraph's w:pPr, creating it as first child.
func (p *Paragraph) properties() *etree.Element {
	if pPr := p.el.SelectElement("w:pPr"); pPr != nil {
		return pPr
	}
	pPr := etree.NewElement("w:pPr")
	p.el.InsertChildAt(0, pPr)
	return pPr
}

// SetAlignment sets the paragraph justification.
func (p *Paragraph) SetAlignment(a Alignment) *Paragraph {
	pPr := p.properties()
	if jc := pPr.SelectElement("w:jc"); jc != nil {
		jc.CreateAttr("w:val", string(a))
		return p
	}
	jc := etree.NewElement("w:jc")
	jc.CreateAttr("w:val", string(a))
	insertBefore(pPr, jc, "w:textAlignment", "w:textboxTightWrap", "w:outlineLvl",
		"w:divId", "w:cnfStyle", "w:rPr", "w:sectPr", "w:pPrChange")
	return p
}

// Alignment returns the paragraph justification, or "" when unset.
func (p *Paragraph) Alignment() Alignment {
	pPr := p.el.SelectElement("w:pPr")
	if pPr == nil {
		return ""
	}
	if jc := pPr.SelectElement("w:jc"); jc != nil {
		return Alignment(jc.SelectAttrValue("w:val", ""))
	}
	return ""
}

// Clear removes all paragraph content except its properties.
func (p *Paragraph) Clear() *Paragraph {
	for _, child := range p.el.ChildElements() {
		if child.FullTag() != "w:pPr" {
			p.el.RemoveChild(child)
		}
	}
	return p
}

// AddRun appends a run. Newlines become line breaks and tabs become tab
// stops.
func (p *Paragraph) AddRun(text string, font Font) *etree.Element {
	r := p.el.CreateElement("w:r")
	applyFont(r, font)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if seg == "" {
				continue
			}
			t := r.CreateElement("w:t")
			t.CreateAttr("xml:space", "preserve")
			t.SetText(seg)
		}
	}
	return r
}

// applyFont writes run properties in schema order.
func applyFont(r *etree.Element, f Font) {
	if f == (Font{}) {
		return
	}
	rPr := r.CreateElement("w:rPr")
	if f.Name != "" {
		fonts := rPr.CreateElement("w:rFonts")
		fonts.CreateAttr("w:ascii", f.Name)
		fonts.CreateAttr("w:hAnsi", f.Name)
		fonts.CreateAttr("w:cs", f.Name)
	}
	if f.Bold {
		rPr.CreateElement("w:b")
	}
	if f.Italic {
		rPr.CreateElement("w:i")
	}
	if f.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", f.Color)
	}
	if f.Size > 0 {
		half := strconv.Itoa(int(f.Size * 2))
		rPr.CreateElement("w:sz").CreateAttr("w:val", half)
		rPr.CreateElement("w:szCs").CreateAttr("w:val", half)
	}
}

// SetRunColor forces the text color of a run, creating w:rPr (as first
// child) and w:color as needed.
func SetRunColor(r *etree.Element, color string) {
	rPr := r.SelectElement("w:rPr")
	if rPr == nil {
		rPr = etree.NewElement("w:rPr")
		r.InsertChildAt(0, rPr)
	}
	if c := rPr.SelectElement("w:color"); c != nil {
		c.CreateAttr("w:val", color)
		return
	}
	c := etree.NewElement("w:color")
	c.CreateAttr("w:val", color)
	insertBefore(rPr, c, "w:spacing", "w:w", "w:kern", "w:position", "w:sz", "w:szCs",
		"w:highlight", "w:u", "w:effect", "w:bdr", "w:shd", "w:fitText", "w:vertAlign",
		"w:rtl", "w:cs", "w:em", "w:lang", "w:eastAsianLayout", "w:specVanish", "w:oMath")
}

// insertBefore inserts child ahead of the first existing sibling whose tag
// is listed, or appends it.
func insertBefore(parent, child *etree.Element, followers ...string) {
	for _, el := range parent.ChildElements() {
		for _, tag := range followers {
			if el.FullTag() == tag {
				parent.InsertChildAt(el.Index(), child)
				return
			}
		}
	}
	parent.AddChild(child)
}

// Border is one side of a cell border. Size is in eighths of a point.
type Border struct {
	Val   string
	Size  int
	Color string
}

// Borders holds the four sides of a cell border.
type Borders struct {
	Top, Left, Bottom, Right Border
}

// UniformBorders returns single-line borders of one size and color.
func UniformBorders(size int, color string) Borders {
	b := Border{Val: "single", Size: size, Color: color}
	return Borders{Top: b, Left: b, Bottom: b, Right: b}
}

// Table wraps a w:tbl element.
type Table struct {
	el    *etree.Element
	cells [][]*Cell
}

// Element returns the underlying w:tbl element.
func (t *Table) Element() *etree.Element {
	return t.el
}

// Rows returns the row count.
func (t *Table) Rows() int {
	return len(t.cells)
}

// Cols returns the column count.
func (t *Table) Cols() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// Cell returns the cell at row r, column c.
func (t *Table) Cell(r, c int) *Cell {
	return t.cells[r][c]
}

// SetFixedLayout switches the table to the fixed layout algorithm so cell
// widths are honored.
func (t *Table) SetFixedLayout() *Table {
	tblPr := t.el.SelectElement("w:tblPr")
	if tblPr.SelectElement("w:tblLayout") != nil {
		return t
	}
	layout := etree.NewElement("w:tblLayout")
	layout.CreateAttr("w:type", "fixed")
	insertBefore(tblPr, layout, "w:tblCellMar", "w:tblLook")
	return t
}

// AddTable appends a rows×cols table to the body. Columns share the
// content width equally. Each cell starts with one empty paragraph.
func (d *Document) AddTable(rows, cols int, style string) *Table {
	tbl := etree.NewElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	if id, ok := d.Styles.ID(style); ok {
		tblPr.CreateElement("w:tblStyle").CreateAttr("w:val", id)
	}
	tblW := tblPr.CreateElement("w:tblW")
	tblW.CreateAttr("w:w", "0")
	tblW.CreateAttr("w:type", "auto")

	colWidth := 0
	if cols > 0 {
		colWidth = d.ContentWidth() / cols
	}
	grid := tbl.CreateElement("w:tblGrid")
	for c := 0; c < cols; c++ {
		grid.CreateElement("w:gridCol").CreateAttr("w:w", strconv.Itoa(colWidth))
	}

	t := &Table{el: tbl}
	for r := 0; r < rows; r++ {
		tr := tbl.CreateElement("w:tr")
		row := make([]*Cell, cols)
		for c := 0; c < cols; c++ {
			tc := tr.CreateElement("w:tc")
			tcPr := tc.CreateElement("w:tcPr")
			tcW := tcPr.CreateElement("w:tcW")
			tcW.CreateAttr("w:w", strconv.Itoa(colWidth))
			tcW.CreateAttr("w:type", "dxa")
			tc.CreateElement("w:p")
			row[c] = &Cell{el: tc, styles: d.Styles}
		}
		t.cells = append(t.cells, row)
	}

	d.appendBlock(tbl)
	return t
}

// Cell wraps a w:tc element.
type Cell struct {
	el     *etree.Element
	styles *StyleSheet
}

// Element returns the underlying w:tc element.
func (c *Cell) Element() *etree.Element {
	return c.el
}

// tcPr child order per the schema.
var cellPropOrder = []string{
	"w:cnfStyle", "w:tcW", "w:gridSpan", "w:hMerge", "w:vMerge", "w:tcBorders",
	"w:shd", "w:noWrap", "w:tcMar", "w:textDirection", "w:tcFitText", "w:vAlign",
	"w:hideMark",
}

// setProperty replaces (or inserts in schema order) a tcPr child.
func (c *Cell) setProperty(el *etree.Element) {
	tcPr := c.el.SelectElement("w:tcPr")
	if old := tcPr.SelectElement(el.FullTag()); old != nil {
		tcPr.InsertChildAt(old.Index(), el)
		tcPr.RemoveChild(old)
		return
	}
	for i, tag := range cellPropOrder {
		if tag == el.FullTag() {
			insertBefore(tcPr, el, cellPropOrder[i+1:]...)
			return
		}
	}
	tcPr.AddChild(el)
}

// SetWidth sets the preferred cell width.
func (c *Cell) SetWidth(inches float64) *Cell {
	w := etree.NewElement("w:tcW")
	w.CreateAttr("w:w", strconv.Itoa(Twips(inches)))
	w.CreateAttr("w:type", "dxa")
	c.setProperty(w)
	return c
}

// SetShading fills the cell background with a solid color.
func (c *Cell) SetShading(fill string) *Cell {
	shd := etree.NewElement("w:shd")
	shd.CreateAttr("w:val", "clear")
	shd.CreateAttr("w:color", "auto")
	shd.CreateAttr("w:fill", fill)
	c.setProperty(shd)
	return c
}

// SetBorders sets the four cell borders.
func (c *Cell) SetBorders(b Borders) *Cell {
	borders := etree.NewElement("w:tcBorders")
	for _, side := range []struct {
		tag    string
		border Border
	}{
		{"w:top", b.Top},
		{"w:left", b.Left},
		{"w:bottom", b.Bottom},
		{"w:right", b.Right},
	} {
		el := borders.CreateElement(side.tag)
		el.CreateAttr("w:val", side.border.Val)
		el.CreateAttr("w:sz", strconv.Itoa(side.border.Size))
		el.CreateAttr("w:space", "0")
		el.CreateAttr("w:color", side.border.Color)
	}
	c.setProperty(borders)
	return c
}

// Paragraph returns the cell's first paragraph.
func (c *Cell) Paragraph() *Paragraph {
	p := c.el.SelectElement("w:p")
	if p == nil {
		p = c.el.CreateElement("w:p")
	}
	return &Paragraph{el: p}
}

// AddParagraph appends a paragraph to the cell.
func (c *Cell) AddParagraph(style string) *Paragraph {
	p := newParagraph(c.styles, style)
	c.el.AddChild(p)
	return &Paragraph{el: p}
}

// Twips converts inches to twentieths of a point.
func Twips(inches float64) int {
	return int(inches*1440 + 0.5)
}
