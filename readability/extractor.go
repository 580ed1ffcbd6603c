// Package readability adapts go-readability to the mdclip.Extractor
// boundary.
package readability

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mdclip"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Extractor implements mdclip.Extractor at compile time.
var _ mdclip.Extractor = (*Extractor)(nil)

// Hint classes carry a class score weight into readability's scoring.
// They match readability's positive and negative class patterns and
// nothing else, and are removed from the returned fragment.
const (
	positiveHint = "mdclip-hentry"
	negativeHint = "mdclip-widget"
)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content together with
// readability's metadata guess. Readability always cleans conditionally,
// so opts.ConditionalClean cannot switch it off.
func (e *Extractor) Extract(rawHTML, pageURL string, opts mdclip.ExtractOptions) (*mdclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mdclip.Errorf(mdclip.EINVALID, "empty HTML input")
	}

	input := rawHTML
	if len(opts.ClassScoreWeights) > 0 {
		weighted, err := applyClassWeights(rawHTML, opts.ClassScoreWeights)
		if err != nil {
			return nil, err
		}
		input = weighted
	}

	parser := readability.NewParser()
	if opts.MinCharThreshold > 0 {
		parser.CharThresholds = opts.MinCharThreshold
	}
	parser.KeepClasses = !opts.StripClasses

	article, err := parser.Parse(strings.NewReader(input), parseURL(pageURL))
	if err != nil {
		return nil, err
	}

	content := article.Content
	if content != "" {
		content, err = tidy(content, opts)
		if err != nil {
			return nil, err
		}
	}

	return &mdclip.ExtractResult{
		Title:         article.Title,
		Byline:        article.Byline,
		SiteName:      article.SiteName,
		Excerpt:       article.Excerpt,
		PublishedTime: article.PublishedTime,
		ContentHTML:   content,
	}, nil
}

// applyClassWeights tags every element whose class or id contains a
// weighted key with the hint class for the weight's sign.
func applyClassWeights(rawHTML string, weights map[string]int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", mdclip.Errorf(mdclip.EINVALID, "failed to parse HTML: %v", err)
	}

	keys := make([]string, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		weight := weights[key]
		if weight == 0 || strings.ContainsAny(key, `"\`) {
			continue
		}
		hint := positiveHint
		if weight < 0 {
			hint = negativeHint
		}
		doc.Find(`[class*="` + key + `"], [id*="` + key + `"]`).AddClass(hint)
	}

	return doc.Html()
}

// tidy removes hint classes and, when asked, elements left empty.
func tidy(content string, opts mdclip.ExtractOptions) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", mdclip.Errorf(mdclip.EINTERNAL, "failed to parse extracted content: %v", err)
	}
	body := doc.Find("body")

	body.Find("." + positiveHint + ", ." + negativeHint).
		RemoveClass(positiveHint, negativeHint).
		Each(func(_ int, sel *goquery.Selection) {
			if class, ok := sel.Attr("class"); ok && strings.TrimSpace(class) == "" {
				sel.RemoveAttr("class")
			}
		})

	if opts.StripClasses {
		body.Find("[class]").RemoveAttr("class")
	}
	if opts.DropEmptyNodes {
		dropEmpty(body)
	}

	return body.Html()
}

// dropEmpty removes, deepest first, elements without text or media.
func dropEmpty(sel *goquery.Selection) {
	nodes := sel.Find("*").Nodes
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		if n.Parent == nil || keepEmpty(n) {
			continue
		}
		if strings.TrimSpace(textOf(n)) == "" && !hasMedia(n) {
			n.Parent.RemoveChild(n)
		}
	}
}

func keepEmpty(n *html.Node) bool {
	switch n.Data {
	case "img", "br", "hr", "video", "audio", "picture", "source", "svg", "td", "th":
		return true
	}
	return false
}

func hasMedia(n *html.Node) bool {
	return goquery.NewDocumentFromNode(n).Find("img, video, audio, picture, svg, br, hr, td, th").Length() > 0
}

func textOf(n *html.Node) string {
	return goquery.NewDocumentFromNode(n).Text()
}

// parseURL returns the page URL, or an empty URL when raw is missing or
// malformed so relative links are left as they are.
func parseURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil || raw == "" {
		return &url.URL{}
	}
	return u
}
