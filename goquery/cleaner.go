package goquery

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mdclip"
	"golang.org/x/net/html"
)

// Ensure Cleaner implements mdclip.Cleaner at compile time.
var _ mdclip.Cleaner = (*Cleaner)(nil)

// A noise rule never removes the document root, a main landmark, an
// article body, or an element containing one of them. Articles are matched
// on the element itself since CMS taxonomy classes such as
// "tag-social-media" land on the article tag.
const (
	landmarkSelector  = `html, body, main, [role="main"], article, [itemprop="articleBody"]`
	protectedSelector = `main, [role="main"], article, [itemprop="articleBody"]`
)

// Cleaner removes noise elements from a document before extraction.
type Cleaner struct {
	rules  []compiledRule
	logger *slog.Logger
}

// CleanerOption configures a Cleaner.
type CleanerOption func(*cleanerConfig)

type cleanerConfig struct {
	rules  mdclip.RuleSet
	logger *slog.Logger
}

// WithCleanupRules replaces the default rule catalog.
func WithCleanupRules(rules mdclip.RuleSet) CleanerOption {
	return func(c *cleanerConfig) {
		c.rules = rules
	}
}

// WithCleanerLogger sets the logger used for per-rule diagnostics.
func WithCleanerLogger(logger *slog.Logger) CleanerOption {
	return func(c *cleanerConfig) {
		c.logger = logger
	}
}

// NewCleaner creates a Cleaner using mdclip.CleanupRules unless overridden.
func NewCleaner(opts ...CleanerOption) *Cleaner {
	cfg := &cleanerConfig{
		rules:  mdclip.CleanupRules,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Cleaner{
		rules:  compileRules(cfg.rules, cfg.logger),
		logger: cfg.logger,
	}
}

// Clean parses the document, removes noise, and returns the cleaned document.
func (c *Cleaner) Clean(rawHTML string) (string, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return "", err
	}

	c.CleanDocument(doc)

	return doc.Html()
}

// CleanDocument removes noise from doc in place: catalog matches first,
// then hidden elements, then p and div elements left empty.
func (c *Cleaner) CleanDocument(doc *goquery.Document) {
	body := doc.Find("body")

	for _, r := range c.rules {
		removed := 0
		body.FindMatcher(r.matcher).Each(func(_ int, sel *goquery.Selection) {
			if isProtected(sel) {
				return
			}
			sel.Remove()
			removed++
		})
		if removed > 0 {
			c.logger.Debug("removed noise",
				"selector", r.rule.Selector,
				"reason", r.rule.Reason,
				"count", removed,
			)
		}
	}

	hidden := 0
	body.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if isHidden(sel) {
			sel.Remove()
			hidden++
		}
	})

	empty := 0
	for _, n := range body.Nodes {
		empty += removeEmpty(n, func(n *html.Node) bool {
			name := dom.NodeName(n)
			return name == "p" || name == "div"
		})
	}

	c.logger.Debug("cleanup done", "hidden", hidden, "empty", empty)
}

// isProtected reports whether removing sel would remove a main landmark.
func isProtected(sel *goquery.Selection) bool {
	if sel.Is(landmarkSelector) {
		return true
	}
	return sel.Find(protectedSelector).Length() > 0
}

// isHidden reports whether sel is hidden by the hidden attribute, an
// inline style, or a marker left by a rendering fetcher.
func isHidden(sel *goquery.Selection) bool {
	if _, ok := sel.Attr("hidden"); ok {
		return true
	}
	if _, ok := sel.Attr(mdclip.HiddenAttr); ok {
		return true
	}
	style, ok := sel.Attr("style")
	if !ok {
		return false
	}
	for _, decl := range strings.Split(style, ";") {
		prop, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if prop == "display" && value == "none" || prop == "visibility" && value == "hidden" {
			return true
		}
	}
	return false
}
