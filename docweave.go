// Package docweave composes branded Word documents from a content
// description and a pre-built template.
//
// Basic usage:
//
//	desc, err := content.Load("content.json")
//	if err != nil {
//	    // handle error
//	}
//	report, err := docweave.New().Compose(ctx, desc, "out/report.docx")
//	if err != nil {
//	    // handle error
//	}
//	for _, n := range report.Degraded {
//	    log.Println(n.Kind, n.Message)
//	}
//
// With options:
//
//	report, err := docweave.New().
//	    Template(templates.Cover).
//	    Templates(templates.Set{Dir: "branding", Standard: "a.docx", Cover: "b.docx"}).
//	    Logger(logger).
//	    Compose(ctx, desc, "proposal.docx")
//
// The lower-level docx, placeholder, strip and render packages are
// available for callers that need a different pipeline.
package docweave

// New returns a Composer with the default options: automatic template
// selection, the stock template set, the default diagram converter and no
// logging.
func New() *Composer {
	return &Composer{options: defaultOptions()}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	report := docweave.Must(docweave.New().Compose(ctx, desc, "out.docx"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
