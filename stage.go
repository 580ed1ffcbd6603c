package mdclip

// Cleaner removes noise (ads, navigation, widgets, hidden and empty
// elements) from a full HTML document before content extraction.
type Cleaner interface {
	// Clean returns a cleaned copy of the document. The input is not
	// modified. A rule that cannot be applied is skipped, never fatal.
	Clean(html string) (string, error)
}

// Harvester collects metadata candidates from every schema a page carries
// without choosing between them.
type Harvester interface {
	// Harvest scans the pristine document. guess is the extractor's own
	// metadata guess and may be nil. A missing signal yields no candidate,
	// never an error.
	Harvest(html string, pageURL string, guess *ExtractResult) (*Signals, error)
}

// Sanitizer cleans an extracted content fragment a second time.
type Sanitizer interface {
	// Sanitize returns the cleaned fragment. Sanitizing its own output
	// again returns the same string.
	Sanitize(fragment string) (string, error)
}
