package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Well-known part names.
const (
	contentTypesPart = "[Content_Types].xml"
	documentPart     = "word/document.xml"
	documentRelsPart = "word/_rels/document.xml.rels"
	stylesPart       = "word/styles.xml"
)

var requiredParts = []string{contentTypesPart, documentPart}

const headerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"

// ErrNotDocx is returned when a file is not a WordprocessingML package.
var ErrNotDocx = errors.New("not a docx package")

// defaultContentWidth is 6.5 inches in twips, the body width of a Letter
// page with one-inch margins.
const defaultContentWidth = 9360

// Part is an XML part of the package held as a mutable element tree.
type Part struct {
	Name string
	doc  *etree.Document
}

// Root returns the root element of the part (w:document, w:hdr or w:ftr).
func (p *Part) Root() *etree.Element {
	return p.doc.Root()
}

// Document is an editable DOCX package. Parts that are not edited are
// written back byte for byte.
type Document struct {
	names []string
	raw   map[string][]byte
	parts map[string]*Part

	main    *Part
	rels    *Part
	types   *Part
	headers []*Part
	footers []*Part

	// Styles resolves style names against word/styles.xml.
	Styles *StyleSheet

	nextDrawingID int
	mediaSeq      int
}

// Open reads a DOCX package from disk.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	return doc, nil
}

// Parse reads a DOCX package from memory.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	d := &Document{
		raw:   make(map[string][]byte, len(zr.File)),
		parts: make(map[string]*Part),
	}
	for _, f := range zr.File {
		content, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		d.names = append(d.names, f.Name)
		d.raw[f.Name] = content
	}
	for _, name := range requiredParts {
		if _, ok := d.raw[name]; !ok {
			return nil, fmt.Errorf("%w: missing required file: %s", ErrNotDocx, name)
		}
	}

	if d.main, err = d.part(documentPart); err != nil {
		return nil, err
	}
	if d.types, err = d.part(contentTypesPart); err != nil {
		return nil, err
	}
	if _, ok := d.raw[documentRelsPart]; !ok {
		d.addRaw(documentRelsPart, []byte(emptyRelationships))
	}
	if d.rels, err = d.part(documentRelsPart); err != nil {
		return nil, err
	}
	if d.Body() == nil {
		return nil, fmt.Errorf("%w: document has no body", ErrNotDocx)
	}

	if d.Styles, err = parseStyles(d.raw[stylesPart]); err != nil {
		return nil, fmt.Errorf("parsing styles: %w", err)
	}
	if err := d.loadHeadersFooters(); err != nil {
		return nil, err
	}
	d.nextDrawingID = d.maxDrawingID() + 1

	return d, nil
}

const emptyRelationships = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (d *Document) addRaw(name string, data []byte) {
	if _, ok := d.raw[name]; !ok {
		d.names = append(d.names, name)
	}
	d.raw[name] = data
}

// part parses (once) and returns the named XML part.
func (d *Document) part(name string) (*Part, error) {
	if p, ok := d.parts[name]; ok {
		return p, nil
	}
	data, ok := d.raw[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	x := etree.NewDocument()
	if err := x.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	if x.Root() == nil {
		return nil, fmt.Errorf("parsing %s: empty part", name)
	}
	p := &Part{Name: name, doc: x}
	d.parts[name] = p
	return p, nil
}

// loadHeadersFooters collects the default header and footer of every
// section. A part shared by several sections is listed once.
func (d *Document) loadHeadersFooters() error {
	seen := make(map[string]bool)
	for _, sect := range d.main.Root().FindElements("//w:sectPr") {
		for _, ref := range sect.ChildElements() {
			var list *[]*Part
			switch ref.FullTag() {
			case "w:headerReference":
				list = &d.headers
			case "w:footerReference":
				list = &d.footers
			default:
				continue
			}
			if typ := ref.SelectAttrValue("w:type", "default"); typ != "default" {
				continue
			}
			target := d.relTarget(ref.SelectAttrValue("r:id", ""))
			if target == "" || seen[target] {
				continue
			}
			seen[target] = true
			p, err := d.part(partName(target))
			if err != nil {
				return err
			}
			*list = append(*list, p)
		}
	}
	return nil
}

// relTarget returns the target of a document relationship, or "".
func (d *Document) relTarget(id string) string {
	if id == "" {
		return ""
	}
	for _, rel := range d.rels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Id", "") == id {
			return rel.SelectAttrValue("Target", "")
		}
	}
	return ""
}

// EnsureHeader gives the first section a default header when it has none
// and returns the new, empty part. It returns nil when the first section
// already has a default header. Later sections without a header of their
// own inherit the first one.
func (d *Document) EnsureHeader() *Part {
	var sect *etree.Element
	if sects := d.main.Root().FindElements("//w:sectPr"); len(sects) > 0 {
		sect = sects[0]
	} else {
		sect = d.Body().CreateElement("w:sectPr")
	}
	for _, ref := range sect.SelectElements("w:headerReference") {
		if ref.SelectAttrValue("w:type", "default") == "default" {
			return nil
		}
	}

	name := d.unusedPartName("word/header", ".xml")
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	hdr := x.CreateElement("w:hdr")
	hdr.CreateAttr("xmlns:w", nsW)
	hdr.CreateAttr("xmlns:r", nsR)

	part := &Part{Name: name, doc: x}
	d.names = append(d.names, name)
	d.parts[name] = part
	d.addOverride("/"+name, headerContentType)

	id := d.addRelationship(relTypeHeader, strings.TrimPrefix(name, "word/"))
	if root := d.main.Root(); root.SelectAttr("xmlns:r") == nil {
		root.CreateAttr("xmlns:r", nsR)
	}
	ref := etree.NewElement("w:headerReference")
	ref.CreateAttr("w:type", "default")
	ref.CreateAttr("r:id", id)
	// Header and footer references lead the section properties
	sect.InsertChildAt(0, ref)

	d.headers = append([]*Part{part}, d.headers...)
	return part
}

// unusedPartName returns prefix+N+ext for the smallest N >= 1 not in the
// package.
func (d *Document) unusedPartName(prefix, ext string) string {
	for n := 1; ; n++ {
		name := prefix + strconv.Itoa(n) + ext
		if _, ok := d.raw[name]; ok {
			continue
		}
		if _, ok := d.parts[name]; ok {
			continue
		}
		return name
	}
}

// Main returns the main document part.
func (d *Document) Main() *Part {
	return d.main
}

// Headers returns the default header part of each section.
func (d *Document) Headers() []*Part {
	return d.headers
}

// Footers returns the default footer part of each section.
func (d *Document) Footers() []*Part {
	return d.footers
}

// Body returns the w:body element.
func (d *Document) Body() *etree.Element {
	return d.main.Root().SelectElement("w:body")
}

// Blocks returns the top-level paragraphs and tables of the body.
func (d *Document) Blocks() []*etree.Element {
	var blocks []*etree.Element
	for _, el := range d.Body().ChildElements() {
		if el.FullTag() == "w:p" || el.FullTag() == "w:tbl" {
			blocks = append(blocks, el)
		}
	}
	return blocks
}

// Remove detaches a block from the body.
func (d *Document) Remove(el *etree.Element) {
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}

// appendBlock adds a block at the end of the body, ahead of the body-level
// section properties.
func (d *Document) appendBlock(el *etree.Element) {
	body := d.Body()
	if sect := body.SelectElement("w:sectPr"); sect != nil {
		body.InsertChildAt(sect.Index(), el)
		return
	}
	body.AddChild(el)
}

// ContentWidth returns the usable body width in twips: page width minus
// left and right margins of the final section.
func (d *Document) ContentWidth() int {
	sect := d.Body().SelectElement("w:sectPr")
	if sect == nil {
		return defaultContentWidth
	}
	pgSz := sect.SelectElement("w:pgSz")
	pgMar := sect.SelectElement("w:pgMar")
	if pgSz == nil || pgMar == nil {
		return defaultContentWidth
	}
	w := atoi(pgSz.SelectAttrValue("w:w", ""))
	left := atoi(pgMar.SelectAttrValue("w:left", ""))
	right := atoi(pgMar.SelectAttrValue("w:right", ""))
	if width := w - left - right; width > 0 {
		return width
	}
	return defaultContentWidth
}

// Bytes serializes the package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package as a zip archive, keeping the original entry
// order with new parts at the end. It returns the number of bytes written.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, name := range d.names {
		data := d.raw[name]
		if p, ok := d.parts[name]; ok {
			b, err := p.doc.WriteToBytes()
			if err != nil {
				return cw.n, fmt.Errorf("serializing %s: %w", name, err)
			}
			data = b
		}
		fw, err := zw.Create(name)
		if err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return cw.n, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	err := zw.Close()
	return cw.n, err
}

// countingWriter counts the bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Save writes the package to filename. Parent directories are created and
// the file is written to a temporary sibling first, then renamed, so a
// failed save never leaves a partial document behind.
func (d *Document) Save(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".docweave-*.docx")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}

// addRelationship registers a document relationship and returns its ID.
func (d *Document) addRelationship(relType, target string) string {
	root := d.rels.Root()
	highest := 0
	for _, rel := range root.SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	id := "rId" + strconv.Itoa(highest+1)
	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	return id
}

// ensureDefaultContentType registers a content type for a file extension
// unless one is already present.
func (d *Document) ensureDefaultContentType(ext, contentType string) {
	root := d.types.Root()
	for _, def := range root.SelectElements("Default") {
		if strings.EqualFold(def.SelectAttrValue("Extension", ""), ext) {
			return
		}
	}
	def := etree.NewElement("Default")
	def.CreateAttr("Extension", ext)
	def.CreateAttr("ContentType", contentType)
	// Defaults precede Overrides
	if first := root.SelectElement("Override"); first != nil {
		root.InsertChildAt(first.Index(), def)
		return
	}
	root.AddChild(def)
}

// addOverride registers the content type of a single part.
func (d *Document) addOverride(partName, contentType string) {
	o := d.types.Root().CreateElement("Override")
	o.CreateAttr("PartName", partName)
	o.CreateAttr("ContentType", contentType)
}

// maxDrawingID returns the largest drawing object ID in use in the body.
func (d *Document) maxDrawingID() int {
	highest := 0
	for _, el := range d.main.Root().FindElements("//wp:docPr") {
		if n := atoi(el.SelectAttrValue("id", "")); n > highest {
			highest = n
		}
	}
	return highest
}
