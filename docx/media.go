package docx

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	// Image formats accepted by AddPicture
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// EMUsPerInch is the number of English Metric Units in one inch.
const EMUsPerInch = 914400

// imageFormats maps image.DecodeConfig format names to file extension and
// content type.
var imageFormats = map[string]struct{ ext, contentType string }{
	"png":  {"png", "image/png"},
	"jpeg": {"jpeg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"bmp":  {"bmp", "image/bmp"},
	"tiff": {"tiff", "image/tiff"},
	"webp": {"webp", "image/webp"},
}

// AddPicture appends a paragraph holding the image at filename, scaled to
// widthInches with its aspect ratio preserved.
func (d *Document) AddPicture(filename string, widthInches float64) (*Paragraph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", filename, err)
	}
	f, ok := imageFormats[format]
	if !ok || cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("decoding image %s: unsupported format %q", filename, format)
	}

	name := d.mediaName(f.ext)
	d.addRaw("word/"+name, data)
	d.ensureDefaultContentType(f.ext, f.contentType)
	relID := d.addRelationship(relTypeImage, name)

	cx := int64(widthInches * EMUsPerInch)
	cy := cx * int64(cfg.Height) / int64(cfg.Width)

	p := d.AddParagraph("")
	r := p.el.CreateElement("w:r")
	r.AddChild(d.inlineDrawing(relID, filepath.Base(filename), cx, cy))
	return p, nil
}

// mediaName picks an unused media/ part name.
func (d *Document) mediaName(ext string) string {
	for {
		d.mediaSeq++
		name := "media/docweave" + strconv.Itoa(d.mediaSeq) + "." + ext
		if _, taken := d.raw["word/"+name]; !taken {
			return name
		}
	}
}

// inlineDrawing builds a w:drawing holding an inline picture. Namespaces
// are declared locally so the fragment is valid whatever the host part
// declares.
func (d *Document) inlineDrawing(relID, descr string, cx, cy int64) *etree.Element {
	id := strconv.Itoa(d.nextDrawingID)
	d.nextDrawingID++
	ext := func(el *etree.Element) {
		el.CreateAttr("cx", strconv.FormatInt(cx, 10))
		el.CreateAttr("cy", strconv.FormatInt(cy, 10))
	}

	drawing := etree.NewElement("w:drawing")
	inline := drawing.CreateElement("wp:inline")
	inline.CreateAttr("xmlns:wp", nsWP)
	for _, a := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(a, "0")
	}
	ext(inline.CreateElement("wp:extent"))
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", id)
	docPr.CreateAttr("name", "Picture "+id)
	docPr.CreateAttr("descr", descr)
	locks := inline.CreateElement("wp:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks")
	locks.CreateAttr("xmlns:a", nsA)
	locks.CreateAttr("noChangeAspect", "1")

	graphic := inline.CreateElement("a:graphic")
	graphic.CreateAttr("xmlns:a", nsA)
	data := graphic.CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")
	pic.CreateAttr("xmlns:pic", nsPic)

	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", "0")
	cNvPr.CreateAttr("name", descr)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	blip := fill.CreateElement("a:blip")
	blip.CreateAttr("xmlns:r", nsR)
	blip.CreateAttr("r:embed", relID)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	ext(xfrm.CreateElement("a:ext"))
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")

	return drawing
}
