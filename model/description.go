package model

// Description is the root content description of one document.
type Description struct {
	Title         string
	Subtitle      string
	Client        string
	Date          string
	Confidential  bool
	Type          string // document-type tag, e.g. "proposal"
	HeaderText    string
	HeaderTextSet bool // HeaderText was given, possibly empty to suppress the header
	FooterText    string
	Sections      []Section
}

// Section is a heading followed by its content items.
type Section struct {
	Heading string
	Level   int // 1-4
	Items   []Item
}

// HeaderOverride returns the text that replaces the header placeholder:
// the explicit header text, or the title when none was given.
func (d *Description) HeaderOverride() string {
	if d.HeaderTextSet || d.HeaderText != "" {
		return d.HeaderText
	}
	return d.Title
}

// ItemCount returns the total number of items across all sections.
func (d *Description) ItemCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	return n
}
