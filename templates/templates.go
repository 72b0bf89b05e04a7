// Package templates chooses between the standard and cover-page Word
// templates and locates their files.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/cases"

	"github.com/tsawler/docweave/model"
)

// ErrTemplateNotFound is returned when the selected template file does not
// exist.
var ErrTemplateNotFound = errors.New("template not found")

// Kind is a template variant.
type Kind int

const (
	// Auto defers the choice to Select's rules.
	Auto Kind = iota
	Standard
	Cover
)

// String returns the name used on the command line.
func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case Cover:
		return "cover"
	default:
		return "auto"
	}
}

// ParseKind parses "standard", "cover", "auto" or "".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "auto":
		return Auto, nil
	case "standard":
		return Standard, nil
	case "cover":
		return Cover, nil
	}
	return Auto, fmt.Errorf("unknown template %q (want standard or cover)", s)
}

// coverTypes are the document types that call for a cover page.
var coverTypes = []string{"proposal", "report", "deliverable", "assessment", "executive summary"}

// CoverSectionThreshold is the section count from which a document gets a
// cover page.
const CoverSectionThreshold = 4

// Select returns the template kind for a description. The first matching
// rule wins:
//
//  1. an explicit override (Standard or Cover)
//  2. confidential documents use the cover
//  3. proposal, report, deliverable, assessment and executive summary
//     types (any case) use the cover
//  4. documents with four or more sections use the cover
//  5. everything else uses the standard template
func Select(desc *model.Description, override Kind) Kind {
	if override == Standard || override == Cover {
		return override
	}
	if desc.Confidential {
		return Cover
	}
	fold := cases.Fold()
	docType := fold.String(desc.Type)
	for _, t := range coverTypes {
		if docType == fold.String(t) {
			return Cover
		}
	}
	if len(desc.Sections) >= CoverSectionThreshold {
		return Cover
	}
	return Standard
}

// Set names the template files inside a directory.
type Set struct {
	Dir      string
	Standard string
	Cover    string
}

// DefaultSet returns the stock template layout.
func DefaultSet() Set {
	return Set{
		Dir:      filepath.Join("templates", "word"),
		Standard: "word-template.docx",
		Cover:    "word-template-cover.docx",
	}
}

// Path returns the file for kind, or an error wrapping ErrTemplateNotFound
// when it does not exist. Auto is not a file and is rejected.
func (s Set) Path(kind Kind) (string, error) {
	var name string
	switch kind {
	case Standard:
		name = s.Standard
	case Cover:
		name = s.Cover
	default:
		return "", fmt.Errorf("no template file for kind %s", kind)
	}

	path := filepath.Join(s.Dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("checking template %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrTemplateNotFound, path)
	}
	return path, nil
}
