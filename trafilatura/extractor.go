// Package trafilatura adapts go-trafilatura to the mdclip.Extractor
// boundary.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/fwojciec/mdclip"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements mdclip.Extractor at compile time.
var _ mdclip.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content together with
// trafilatura's metadata guess. Trafilatura scores by its own heuristics;
// MinCharThreshold and ClassScoreWeights are not forwarded.
func (e *Extractor) Extract(rawHTML, pageURL string, opts mdclip.ExtractOptions) (*mdclip.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mdclip.Errorf(mdclip.EINVALID, "empty HTML input")
	}

	topts := trafilatura.Options{
		EnableFallback:  opts.ConditionalClean,
		IncludeImages:   true,
		IncludeLinks:    true,
		ExcludeComments: true,
	}
	if u, err := url.Parse(pageURL); err == nil && pageURL != "" {
		topts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), topts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		dropBaselineEcho(result.ContentNode, result.Metadata.Title)
		tidy(result.ContentNode, opts)
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	extracted := &mdclip.ExtractResult{
		Title:       result.Metadata.Title,
		Byline:      result.Metadata.Author,
		SiteName:    result.Metadata.Sitename,
		Excerpt:     result.Metadata.Description,
		ContentHTML: contentHTML,
	}
	if !result.Metadata.Date.IsZero() {
		published := result.Metadata.Date
		extracted.PublishedTime = &published
	}
	return extracted, nil
}

// tidy applies the output options trafilatura has no switch for.
func tidy(root *html.Node, opts mdclip.ExtractOptions) {
	if opts.StripClasses {
		for _, n := range dom.FindAllNodes(root, func(n *html.Node) bool { return n.Type == html.ElementNode }) {
			removeAttr(n, "class")
		}
		removeAttr(root, "class")
	}
	if opts.DropEmptyNodes {
		dropEmpty(root)
	}
}

// dropBaselineEcho removes the paragraph trafilatura appends on short pages
// when its text only repeats the title and the content before it.
func dropBaselineEcho(root *html.Node, title string) {
	parent := root
	for {
		children := dom.AllChildElements(parent)
		if len(children) != 1 || dom.NodeName(children[0]) == "p" {
			break
		}
		parent = children[0]
	}

	children := dom.AllChildElements(parent)
	if len(children) < 2 {
		return
	}
	last := children[len(children)-1]

	var before strings.Builder
	for _, c := range children[:len(children)-1] {
		before.WriteString(squeeze(dom.CollectText(c)))
	}
	if before.Len() == 0 {
		return
	}

	rest, ok := strings.CutSuffix(squeeze(dom.CollectText(last)), before.String())
	if ok && (rest == "" || rest == squeeze(title)) {
		dom.RemoveNode(last)
	}
}

// squeeze drops all whitespace so text joined without separators compares
// equal to the same text spread over several elements.
func squeeze(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func removeAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	n.Attr = attrs
}

// dropEmpty removes, bottom-up, descendants of n without text or media.
func dropEmpty(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			dropEmpty(c)
			if !hasContent(c) {
				dom.RemoveNode(c)
			}
		}
		c = next
	}
}

func hasContent(n *html.Node) bool {
	switch dom.NodeName(n) {
	case "img", "br", "hr", "video", "audio", "picture", "source", "svg", "td", "th":
		return true
	}
	return dom.FirstChildElement(n) != nil || strings.TrimSpace(dom.CollectText(n)) != ""
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
