package docweave

import (
	"go.uber.org/zap"

	"github.com/tsawler/docweave/render"
	"github.com/tsawler/docweave/templates"
)

// DefaultBrand is the brand name footers are matched against.
const DefaultBrand = "Donyati"

// ComposeOptions holds configuration for composition.
type ComposeOptions struct {
	// Template selection
	template  templates.Kind
	templates templates.Set

	// Collaborators
	logger   *zap.Logger
	diagrams render.DiagramRenderer // nil means the default converter

	// Branding
	brand string
}

// defaultOptions returns the default composition options.
func defaultOptions() ComposeOptions {
	return ComposeOptions{
		template:  templates.Auto,
		templates: templates.DefaultSet(),
		logger:    zap.NewNop(),
		diagrams:  nil,
		brand:     DefaultBrand,
	}
}

// clone creates a copy of ComposeOptions. No field is shared mutable
// state, so a value copy suffices.
func (o ComposeOptions) clone() ComposeOptions {
	return o
}
