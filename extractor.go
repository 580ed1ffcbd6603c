package mdclip

import "time"

// ExtractResult holds the extracted content from an HTML page together
// with the extractor's own guess at the page metadata.
type ExtractResult struct {
	Title    string
	Byline   string
	SiteName string
	Excerpt  string

	// PublishedTime is set when the extractor found a publication date.
	PublishedTime *time.Time

	// ContentHTML is the best-guess main content as an HTML fragment.
	ContentHTML string
}

// HasContent reports whether the result carries a usable content fragment.
func (r *ExtractResult) HasContent() bool {
	return r != nil && !isBlank(r.ContentHTML)
}

// ExtractOptions configures a single extraction.
type ExtractOptions struct {
	// MinCharThreshold is the minimum text length a candidate must reach.
	MinCharThreshold int

	// StripClasses removes class attributes from the returned fragment.
	StripClasses bool

	// ConditionalClean removes low-quality blocks (link-heavy lists,
	// tables of widgets) from the chosen subtree.
	ConditionalClean bool

	// DropEmptyNodes removes elements left without content.
	DropEmptyNodes bool

	// ClassScoreWeights biases scoring for elements whose class or id
	// contains the key. Positive values favor, negative values penalize.
	ClassScoreWeights map[string]int
}

// DefaultClassWeights favors common article containers and penalizes
// boilerplate that survives cleanup.
var DefaultClassWeights = map[string]int{
	"article-body":  25,
	"post-content":  25,
	"entry-content": 25,
	"story-body":    25,
	"byline":        -25,
	"breadcrumb":    -25,
	"cookie":        -25,
	"promo":         -25,
	"toolbar":       -25,
}

// MetadataExtractOptions is used for the metadata-only pass over the
// pristine page.
var MetadataExtractOptions = ExtractOptions{
	MinCharThreshold: 20,
}

// ContentExtractOptions is used for the content pass over the cleaned page.
var ContentExtractOptions = ExtractOptions{
	MinCharThreshold:  20,
	StripClasses:      true,
	ConditionalClean:  true,
	DropEmptyNodes:    true,
	ClassScoreWeights: DefaultClassWeights,
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes HTML and returns the main content and the
	// extractor's metadata guess. A nil result or one without content
	// means no usable result; callers fall back to the full page body.
	Extract(html string, pageURL string, opts ExtractOptions) (*ExtractResult, error)
}
