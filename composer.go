package docweave

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tsawler/docweave/docx"
	"github.com/tsawler/docweave/model"
	"github.com/tsawler/docweave/placeholder"
	"github.com/tsawler/docweave/render"
	"github.com/tsawler/docweave/strip"
	"github.com/tsawler/docweave/templates"
)

// Composer provides a fluent interface for turning content descriptions
// into documents. Each configuration method returns a new Composer
// instance, so a configured Composer can be shared and reused.
type Composer struct {
	options ComposeOptions
}

// Report summarizes one composition.
type Report struct {
	RunID    string
	Template templates.Kind
	Path     string // template file used
	Output   string
	Sections int
	Items    int
	Strip    strip.Result
	Degraded []render.Notice

	HeaderMatched bool // a header marker was found (else a header line was appended)
	FooterDates   int
}

// clone returns a copy of the Composer.
func (c *Composer) clone() *Composer {
	return &Composer{options: c.options.clone()}
}

// Template forces a template kind. templates.Auto restores automatic
// selection.
func (c *Composer) Template(kind templates.Kind) *Composer {
	nc := c.clone()
	nc.options.template = kind
	return nc
}

// Templates sets where template files are looked up.
func (c *Composer) Templates(set templates.Set) *Composer {
	nc := c.clone()
	nc.options.templates = set
	return nc
}

// Logger sets the logger. A nil logger disables logging.
func (c *Composer) Logger(logger *zap.Logger) *Composer {
	nc := c.clone()
	if logger == nil {
		logger = zap.NewNop()
	}
	nc.options.logger = logger
	return nc
}

// Diagrams sets the diagram renderer. A nil renderer restores the default
// converter.
func (c *Composer) Diagrams(r render.DiagramRenderer) *Composer {
	nc := c.clone()
	nc.options.diagrams = r
	return nc
}

// Brand sets the brand name used to find the footer's center line.
func (c *Composer) Brand(name string) *Composer {
	nc := c.clone()
	nc.options.brand = name
	return nc
}

// Compose builds the document for desc and writes it to output. Template
// resolution, template parsing and saving are fatal; nothing is written
// when they fail. Missing images and failed diagrams degrade to inline
// notices listed in the Report.
func (c *Composer) Compose(ctx context.Context, desc *model.Description, output string) (*Report, error) {
	if desc == nil {
		return nil, fmt.Errorf("no content description")
	}
	report := &Report{
		RunID:    uuid.NewString(),
		Output:   output,
		Sections: len(desc.Sections),
		Items:    desc.ItemCount(),
	}
	log := c.options.logger.With(zap.String("run_id", report.RunID))

	report.Template = templates.Select(desc, c.options.template)
	path, err := c.options.templates.Path(report.Template)
	if err != nil {
		return nil, err
	}
	report.Path = path
	log.Info("using template", zap.Stringer("kind", report.Template), zap.String("path", path))

	doc, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening template: %w", err)
	}

	if report.Template == templates.Cover {
		n := placeholder.Cover(doc, desc.Title, desc.Client)
		log.Debug("cover placeholders replaced", zap.Int("leaves", n))
	}

	c.decorate(doc, desc, report, log)

	report.Strip = strip.Strip(doc, strip.KeepSet(desc.Title, desc.Client), report.Template)
	log.Debug("template content stripped",
		zap.Int("paragraphs", report.Strip.Paragraphs),
		zap.Int("cleared", report.Strip.Cleared),
		zap.Int("tables", report.Strip.Tables),
		zap.Int("leading", report.Strip.Leading))

	r := render.New(doc, c.options.diagrams, log)
	if err := c.body(ctx, r, doc, desc); err != nil {
		return nil, err
	}
	report.Degraded = r.Notices()

	if err := doc.Save(output); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	log.Info("document created",
		zap.String("output", output),
		zap.Int("sections", report.Sections),
		zap.Int("items", report.Items),
		zap.Int("degraded", len(report.Degraded)))
	return report, nil
}

// decorate fills the header and footer parts.
func (c *Composer) decorate(doc *docx.Document, desc *model.Description, report *Report, log *zap.Logger) {
	override := desc.HeaderOverride()
	if override != "" {
		if part := doc.EnsureHeader(); part != nil {
			log.Debug("added default header", zap.String("part", part.Name))
		}
	}
	for _, part := range doc.Headers() {
		if placeholder.Header(part, override) {
			report.HeaderMatched = true
		}
	}

	for _, part := range doc.Footers() {
		report.FooterDates += placeholder.FooterDate(part, desc.Date)
		if desc.FooterText != "" && !placeholder.FooterText(part, desc.FooterText, c.options.brand) {
			log.Debug("footer has no paragraph for text", zap.String("part", part.Name))
		}
	}
}

// body appends the title block and every section.
func (c *Composer) body(ctx context.Context, r *render.Renderer, doc *docx.Document, desc *model.Description) error {
	if desc.Title != "" {
		r.Heading(desc.Title, 1)
	}
	if desc.Subtitle != "" {
		doc.AddText(render.StyleSubtitle, desc.Subtitle, docx.Font{}).SetAlignment(docx.AlignLeft)
	}
	if desc.Date != "" {
		doc.AddText(render.StyleNormal, desc.Date, docx.Font{})
		doc.AddParagraph("")
	}

	for _, section := range desc.Sections {
		if section.Heading != "" {
			r.Heading(section.Heading, section.Level)
		}
		for _, item := range section.Items {
			if err := r.Render(ctx, item); err != nil {
				return fmt.Errorf("rendering %s: %w", item.Kind(), err)
			}
		}
	}
	return nil
}
