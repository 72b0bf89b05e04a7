// Package docx reads and edits DOCX (Office Open XML) packages.
//
// Two views of a package are provided. [Document] is the editable view:
// the main document part, its headers and footers are held as mutable
// element trees, so markup the package does not understand (content
// controls, text boxes, field codes) survives a round trip. Parts that are
// never touched are written back unchanged.
//
//	doc, err := docx.Open("template.docx")
//	if err != nil {
//		return err
//	}
//	doc.AddText("Heading 1", "Quarterly Review", docx.Font{})
//	if err := doc.Save("out/review.docx"); err != nil {
//		return err
//	}
//
// [Reader] is a read-only view that decodes the body into [ParsedParagraph]
// and [ParsedTable] values. It is used to inspect templates and to verify
// generated documents.
//
// # Text leaves
//
// [TextLeaves] walks any element tree and returns the text-bearing
// elements (w:t, a:t, w:instrText, w:delText) in document order. Field
// codes and deleted text are read-only: [Leaf.SetText] returns
// [ErrReadOnlyText] for them.
//
// # Building content
//
// New paragraphs and tables are appended to the end of the body, ahead of
// the final section properties. Style names are resolved through the
// package's styles part; a style the template does not define is omitted
// and the block falls back to the document default.
package docx
