package docx

import (
	"errors"

	"github.com/beevik/etree"
)

// ErrReadOnlyText is returned when setting the text of a leaf that Word
// derives rather than displays (field codes, tracked deletions).
var ErrReadOnlyText = errors.New("text leaf is read-only")

// Leaf is a text-bearing element: w:t, a:t, w:instrText or w:delText.
type Leaf struct {
	el *etree.Element
}

var leafTags = map[string]bool{
	"w:t":         true,
	"a:t":         true,
	"w:instrText": false,
	"w:delText":   false,
}

// Element returns the underlying element.
func (l Leaf) Element() *etree.Element {
	return l.el
}

// Text returns the leaf's own text.
func (l Leaf) Text() string {
	return l.el.Text()
}

// Writable reports whether SetText may change the leaf.
func (l Leaf) Writable() bool {
	return leafTags[l.el.FullTag()]
}

// SetText replaces the leaf's text. Leading or trailing whitespace is kept
// by marking the element xml:space="preserve".
func (l Leaf) SetText(s string) error {
	if !l.Writable() {
		return ErrReadOnlyText
	}
	l.el.SetText(s)
	if l.el.Space == "w" && s != "" && (isSpace(s[0]) || isSpace(s[len(s)-1])) {
		if l.el.SelectAttr("xml:space") == nil {
			l.el.CreateAttr("xml:space", "preserve")
		}
	}
	return nil
}

// Run returns the nearest enclosing w:r or a:r, or nil.
func (l Leaf) Run() *etree.Element {
	for p := l.el.Parent(); p != nil; p = p.Parent() {
		if tag := p.FullTag(); tag == "w:r" || tag == "a:r" {
			return p
		}
	}
	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}

// TextLeaves returns every text-bearing leaf under root in document order.
// The walk uses an explicit stack, so deeply nested tables, content
// controls and text boxes cannot exhaust the call stack.
func TextLeaves(root *etree.Element) []Leaf {
	if root == nil {
		return nil
	}
	var leaves []Leaf
	stack := []*etree.Element{root}
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := leafTags[el.FullTag()]; ok {
			leaves = append(leaves, Leaf{el: el})
			continue
		}
		children := el.ChildElements()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return leaves
}

// ParagraphText returns the visible text of a paragraph: its runs, and
// runs nested in hyperlinks, smart tags, insertions and inline content
// controls. Text boxes anchored in the paragraph are not included.
func ParagraphText(p *etree.Element) string {
	var buf []byte
	stack := []*etree.Element{p}
	for len(stack) > 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch el.FullTag() {
		case "w:t":
			buf = append(buf, el.Text()...)
			continue
		case "w:tab":
			buf = append(buf, '\t')
			continue
		case "w:br", "w:cr":
			buf = append(buf, '\n')
			continue
		case "w:drawing", "w:pict", "w:pPr", "w:rPr", "mc:AlternateContent":
			continue
		}
		children := el.ChildElements()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return string(buf)
}

// HasDrawing reports whether a paragraph carries a picture or shape.
func HasDrawing(p *etree.Element) bool {
	return p.FindElement(".//w:drawing") != nil || p.FindElement(".//w:pict") != nil
}

// HasSectionBreak reports whether a paragraph carries section properties.
func HasSectionBreak(p *etree.Element) bool {
	pPr := p.SelectElement("w:pPr")
	return pPr != nil && pPr.SelectElement("w:sectPr") != nil
}
