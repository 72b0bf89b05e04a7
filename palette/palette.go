// Package palette holds the brand colors and the named box styles used when
// rendering callouts, highlight boxes, metric tiles and tables.
//
// Colors are six-digit uppercase hex strings without a leading '#', the form
// WordprocessingML expects in w:color, w:shd and border attributes.
package palette

// Brand colors.
const (
	BrandBlack       = "12002A"
	BrandPurple      = "4A4778"
	BrandLightPurple = "6B6899"
	White            = "FFFFFF"
	CodeGray         = "333333"
)

// Name identifies one of the predefined box styles.
type Name string

const (
	Primary Name = "primary"
	Accent  Name = "accent"
	Info    Name = "info"
	Warning Name = "warning"
	Success Name = "success"
)

// Style is the color triple applied to a styled box.
type Style struct {
	Background string
	Border     string
	Text       string
}

var styles = map[Name]Style{
	Primary: {Background: "E8E6F0", Border: BrandPurple, Text: BrandBlack},
	Accent:  {Background: "F5F0FA", Border: BrandLightPurple, Text: BrandBlack},
	Info:    {Background: "E3F2FD", Border: "1976D2", Text: "0D47A1"},
	Warning: {Background: "FFF8E1", Border: "F9A825", Text: "5D4037"},
	Success: {Background: "E8F5E9", Border: "2E7D32", Text: "1B5E20"},
}

// Lookup returns the style registered under name. Any name outside the
// predefined set, including the empty string, resolves to Info.
func Lookup(name string) Style {
	if s, ok := styles[Name(name)]; ok {
		return s
	}
	return styles[Info]
}

// Known reports whether name is one of the predefined styles.
func Known(name string) bool {
	_, ok := styles[Name(name)]
	return ok
}

// Names returns the predefined style names in a stable order.
func Names() []Name {
	return []Name{Primary, Accent, Info, Warning, Success}
}
