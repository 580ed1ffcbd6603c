package goquery

import (
	"strings"

	"github.com/fwojciec/mdclip"
)

// Ensure BodyExtractor implements mdclip.Extractor at compile time.
var _ mdclip.Extractor = (*BodyExtractor)(nil)

// BodyExtractor is the fallback extractor: it returns the full body markup
// as content and the document title as the title. Options are ignored.
type BodyExtractor struct{}

// NewBodyExtractor creates a BodyExtractor.
func NewBodyExtractor() *BodyExtractor {
	return &BodyExtractor{}
}

// Extract returns the page body and the document title.
func (e *BodyExtractor) Extract(rawHTML, _ string, _ mdclip.ExtractOptions) (*mdclip.ExtractResult, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	content, err := doc.Find("body").First().Html()
	if err != nil {
		return nil, mdclip.Errorf(mdclip.EINTERNAL, "failed to render body: %v", err)
	}

	return &mdclip.ExtractResult{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		ContentHTML: strings.TrimSpace(content),
	}, nil
}
