// Package goquery implements the DOM passes of the clip pipeline
// (cleanup, metadata harvesting, post-extraction sanitizing) on top of
// goquery and cascadia.
package goquery

import (
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/mdclip"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// compiledRule pairs a catalog rule with its compiled matcher.
type compiledRule struct {
	rule    mdclip.Rule
	matcher goquery.Matcher
}

// compileRules compiles every selector of the set. Rules whose selector
// does not compile are logged and left out; the remaining rules still apply.
func compileRules(set mdclip.RuleSet, logger *slog.Logger) []compiledRule {
	rules := make([]compiledRule, 0, len(set.Rules))
	for _, r := range set.Rules {
		sel, err := cascadia.Compile(r.Selector)
		if err != nil {
			logger.Warn("skipping rule",
				"ruleset", set.Name,
				"version", set.Version,
				"selector", r.Selector,
				"err", err,
			)
			continue
		}
		rules = append(rules, compiledRule{rule: r, matcher: sel})
	}
	return rules
}

func parseDocument(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, mdclip.Errorf(mdclip.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// parseFragment parses an HTML fragment into a detached div container.
func parseFragment(fragment string) (*html.Node, error) {
	container := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return nil, mdclip.Errorf(mdclip.EINVALID, "failed to parse HTML fragment: %v", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// isEmpty reports whether n has no element children and no text other
// than whitespace. Comments do not count as content.
func isEmpty(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return false
			}
		}
	}
	return true
}

// removeEmpty removes, bottom-up, every descendant element of root that
// match accepts and that is empty once its own children were processed.
// Returns the number of removed elements.
func removeEmpty(root *html.Node, match func(*html.Node) bool) int {
	removed := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.ElementNode {
				walk(c)
				if match(c) && isEmpty(c) {
					dom.RemoveNode(c)
					removed++
				}
			}
			c = next
		}
	}
	walk(root)
	return removed
}

// removeComments drops every comment node below root.
func removeComments(root *html.Node) {
	for _, n := range dom.FindAllNodes(root, func(n *html.Node) bool {
		return n.Type == html.CommentNode
	}) {
		dom.RemoveNode(n)
	}
}
