// Package model defines the content description a document is composed
// from.
//
// A [Description] is the root input: document-level metadata (title,
// client, date, confidentiality, document type, header and footer
// overrides) and an ordered list of [Section] values. Each section carries
// a heading and an ordered list of [Item] values.
//
// # Items
//
// [Item] is a closed sum type. The concrete types are:
//
//   - [Paragraph] - a block of body text
//   - [BulletList] and [NumberedList] - one block per entry
//   - [Table] - header row plus data rows
//   - [Heading] - an inline heading distinct from the section heading
//   - [Callout] and [HighlightBox] - styled single-cell boxes
//   - [MetricRow] - a row of value/label tiles
//   - [Image] - an image file embedded at a given width
//   - [Diagram] - a diagram definition rendered by an external converter
//   - [Unknown] - any unrecognised kind; renders nothing
//
// Renderers dispatch on the concrete type with a type switch; [ItemKind]
// gives the wire tag of each type.
//
// The model holds values only. Defaults for optional fields are applied by
// the content loader when a description is decoded.
package model
