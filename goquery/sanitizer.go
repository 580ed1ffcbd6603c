package goquery

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mdclip"
	"golang.org/x/net/html"
)

// Ensure Sanitizer implements mdclip.Sanitizer at compile time.
var _ mdclip.Sanitizer = (*Sanitizer)(nil)

var whitespaceRe = regexp.MustCompile(`\s+`)

// keepWhenEmpty lists elements that carry meaning without children.
var keepWhenEmpty = map[string]bool{
	"img": true, "br": true, "hr": true, "wbr": true,
	"source": true, "track": true, "embed": true, "video": true,
	"audio": true, "picture": true, "svg": true, "canvas": true,
	"td": true, "th": true, "col": true, "colgroup": true,
}

// preserveWhitespace lists elements whose text is left untouched.
var preserveWhitespace = map[string]bool{
	"pre":      true,
	"textarea": true,
}

// Sanitizer cleans an extracted content fragment: it drops residual noise
// and empty elements and normalizes whitespace.
type Sanitizer struct {
	rules  []compiledRule
	logger *slog.Logger
}

// SanitizerOption configures a Sanitizer.
type SanitizerOption func(*sanitizerConfig)

type sanitizerConfig struct {
	rules  mdclip.RuleSet
	logger *slog.Logger
}

// WithSanitizeRules replaces the default rule catalog.
func WithSanitizeRules(rules mdclip.RuleSet) SanitizerOption {
	return func(c *sanitizerConfig) {
		c.rules = rules
	}
}

// WithSanitizerLogger sets the logger used for per-rule diagnostics.
func WithSanitizerLogger(logger *slog.Logger) SanitizerOption {
	return func(c *sanitizerConfig) {
		c.logger = logger
	}
}

// NewSanitizer creates a Sanitizer using mdclip.SanitizeRules unless overridden.
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	cfg := &sanitizerConfig{
		rules:  mdclip.SanitizeRules,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Sanitizer{
		rules:  compileRules(cfg.rules, cfg.logger),
		logger: cfg.logger,
	}
}

// Sanitize places the fragment in a detached container, cleans it, and
// returns the container's inner HTML.
//
// Noise rules run before empty-element removal, and empty elements are
// removed bottom-up, so a parent emptied by either step is removed in the
// same pass. That keeps Sanitize idempotent.
func (s *Sanitizer) Sanitize(fragment string) (string, error) {
	container, err := parseFragment(fragment)
	if err != nil {
		return "", err
	}

	removeComments(container)

	doc := goquery.NewDocumentFromNode(container)
	for _, r := range s.rules {
		matched := doc.FindMatcher(r.matcher)
		if matched.Length() == 0 {
			continue
		}
		s.logger.Debug("removed unwanted element",
			"selector", r.rule.Selector,
			"reason", r.rule.Reason,
			"count", matched.Length(),
		)
		matched.Remove()
	}

	removed := removeEmpty(container, func(n *html.Node) bool {
		return !keepWhenEmpty[dom.NodeName(n)]
	})
	if removed > 0 {
		s.logger.Debug("removed empty elements", "count", removed)
	}

	collapseWhitespace(container)

	return doc.Html()
}

// collapseWhitespace merges adjacent text nodes, collapses whitespace runs
// to one space, and drops whitespace-only text next to block elements or
// at the edge of a block. Whitespace between inline elements is a word
// separator and is kept as a single space.
func collapseWhitespace(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.TextNode:
			for next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				after := next.NextSibling
				n.RemoveChild(next)
				next = after
			}
			c.Data = whitespaceRe.ReplaceAllString(c.Data, " ")
			if c.Data == " " && separatesBlocks(n, c) {
				n.RemoveChild(c)
			}
		case html.ElementNode:
			if !preserveWhitespace[dom.NodeName(c)] {
				collapseWhitespace(c)
			}
		}
		c = next
	}
	if isBlock(n) || n.Parent == nil {
		trimEdges(n)
	}
}

// separatesBlocks reports whether the whitespace text node c, a child of
// parent, sits at a block edge or next to a block element.
func separatesBlocks(parent, c *html.Node) bool {
	if c.PrevSibling == nil || c.NextSibling == nil {
		return isBlock(parent) || parent.Parent == nil
	}
	return isBlock(c.PrevSibling) || isBlock(c.NextSibling)
}

func isBlock(n *html.Node) bool {
	return n.Type == html.ElementNode && dom.NameIsBlockNode(dom.NodeName(n))
}

// trimEdges trims leading whitespace of n's first child and trailing
// whitespace of its last, removing text that ends up empty.
func trimEdges(n *html.Node) {
	if first := n.FirstChild; first != nil && first.Type == html.TextNode {
		first.Data = strings.TrimLeft(first.Data, " ")
		if first.Data == "" {
			n.RemoveChild(first)
		}
	}
	if last := n.LastChild; last != nil && last.Type == html.TextNode {
		last.Data = strings.TrimRight(last.Data, " ")
		if last.Data == "" {
			n.RemoveChild(last)
		}
	}
}
