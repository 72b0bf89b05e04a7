package docx

import (
	"encoding/xml"
	"strings"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	XMLName xml.Name     `xml:"style"`
	Type    string       `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string       `xml:"styleId,attr"`
	Default string       `xml:"default,attr"` // "1" if default style
	Name    styleNameXML `xml:"name"`
}

// styleNameXML represents a style name.
type styleNameXML struct {
	Val string `xml:"val,attr"`
}

// relationshipsXML represents a _rels/*.rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// StyleSheet resolves user-facing style names ("Heading 1", "Bullet 1")
// to the style IDs referenced from pStyle and tblStyle.
type StyleSheet struct {
	byName map[string]string
	byID   map[string]string
}

// parseStyles builds a StyleSheet from the content of word/styles.xml.
// A nil or empty input yields an empty sheet.
func parseStyles(data []byte) (*StyleSheet, error) {
	sheet := &StyleSheet{
		byName: make(map[string]string),
		byID:   make(map[string]string),
	}
	if len(data) == 0 {
		return sheet, nil
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return nil, err
	}
	for _, s := range styles.Styles {
		if s.StyleID == "" {
			continue
		}
		sheet.byID[strings.ToLower(s.StyleID)] = s.StyleID
		if s.Name.Val != "" {
			sheet.byName[strings.ToLower(s.Name.Val)] = s.StyleID
		}
	}
	return sheet, nil
}

// ID returns the style ID for a style name. Word stores built-in names in
// lower case ("heading 1") and IDs without spaces ("Heading1"), so the
// lookup is case-insensitive and falls back to the space-stripped name.
func (s *StyleSheet) ID(name string) (string, bool) {
	if s == nil || name == "" {
		return "", false
	}
	key := strings.ToLower(name)
	if id, ok := s.byName[key]; ok {
		return id, true
	}
	if id, ok := s.byID[key]; ok {
		return id, true
	}
	if id, ok := s.byID[strings.ReplaceAll(key, " ", "")]; ok {
		return id, true
	}
	return "", false
}

// Has reports whether the style sheet defines the named style.
func (s *StyleSheet) Has(name string) bool {
	_, ok := s.ID(name)
	return ok
}
