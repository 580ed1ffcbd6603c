package mdclip

import "context"

// Page is the raw document a clip is taken from: the HTML of a loaded page
// and the URL it was loaded from. The HTML string is never mutated; every
// pipeline stage parses its own copy.
type Page struct {
	URL  string
	HTML string
}

// Validate returns an error if the page cannot be clipped.
func (p *Page) Validate() error {
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	return nil
}

// Result is the only artifact of a clip that outlives the run.
type Result struct {
	// Markdown is the rendered document, header block included.
	Markdown string

	// FileName is the safe file name the document should be saved under.
	FileName string
}

// Clipper converts a loaded page into a Markdown Result.
// Each call is independent; implementations hold no per-page state.
type Clipper interface {
	// Clip runs the extraction pipeline against the page.
	// Returns ENOCONTENT if no usable content could be found.
	Clip(ctx context.Context, page *Page) (*Result, error)
}

// ResultWriter persists clip results.
type ResultWriter interface {
	// WriteResult saves the result and returns the path it was written to.
	WriteResult(ctx context.Context, result *Result) (string, error)
}

// ClipProgress reports progress while clipping a batch of URLs.
type ClipProgress struct {
	URL       string
	Path      string
	Completed int
	Total     int
	Error     error
}

// ClipProgressFunc is called as pages are processed.
type ClipProgressFunc func(ClipProgress)
