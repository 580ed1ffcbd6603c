package goquery

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/fwojciec/mdclip"
)

// Ensure Harvester implements mdclip.Harvester at compile time.
var _ mdclip.Harvester = (*Harvester)(nil)

// publishSelector matches elements likely to carry a visible publish date.
const publishSelector = `[class*="publish"], [id*="publish"], [class*="date"], [id*="date"]`

// maxDateTextLength bounds text accepted from a publish-date text match.
const maxDateTextLength = 100

// metaSignals maps lowercased meta keys (property, name, or itemprop) to
// the field and source they feed.
var metaSignals = []struct {
	key    string
	field  mdclip.Field
	source mdclip.Source
}{
	{"og:title", mdclip.FieldTitle, mdclip.SourceOpenGraph},
	{"twitter:title", mdclip.FieldTitle, mdclip.SourceTwitter},
	{"dc.title", mdclip.FieldTitle, mdclip.SourceDublinCore},
	{"dcterms.title", mdclip.FieldTitle, mdclip.SourceDublinCore},

	{"author", mdclip.FieldByline, mdclip.SourceMeta},
	{"dc.creator", mdclip.FieldByline, mdclip.SourceDublinCore},
	{"dcterms.creator", mdclip.FieldByline, mdclip.SourceDublinCore},
	{"twitter:creator", mdclip.FieldByline, mdclip.SourceTwitter},

	{"og:site_name", mdclip.FieldSiteName, mdclip.SourceOpenGraph},
	{"application-name", mdclip.FieldSiteName, mdclip.SourceMeta},

	{"og:description", mdclip.FieldDescription, mdclip.SourceOpenGraph},
	{"description", mdclip.FieldDescription, mdclip.SourceMeta},
	{"twitter:description", mdclip.FieldDescription, mdclip.SourceTwitter},
	{"dc.description", mdclip.FieldDescription, mdclip.SourceDublinCore},
	{"dcterms.description", mdclip.FieldDescription, mdclip.SourceDublinCore},

	{"article:published_time", mdclip.FieldPublishDate, mdclip.SourceArticle},
	{"dc.date", mdclip.FieldPublishDate, mdclip.SourceDublinCore},
	{"dcterms.date", mdclip.FieldPublishDate, mdclip.SourceDublinCore},
	{"dcterms.issued", mdclip.FieldPublishDate, mdclip.SourceDublinCore},
}

// Harvester collects metadata candidates from the pristine document.
type Harvester struct {
	logger *slog.Logger
}

// HarvesterOption configures a Harvester.
type HarvesterOption func(*Harvester)

// WithHarvesterLogger sets the logger used for skipped signals.
func WithHarvesterLogger(logger *slog.Logger) HarvesterOption {
	return func(h *Harvester) {
		h.logger = logger
	}
}

// NewHarvester creates a Harvester.
func NewHarvester(opts ...HarvesterOption) *Harvester {
	h := &Harvester{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest records one candidate per schema per field. Only a document
// that cannot be parsed at all is an error.
func (h *Harvester) Harvest(rawHTML, pageURL string, guess *mdclip.ExtractResult) (*mdclip.Signals, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	signals := mdclip.NewSignals()
	base, _ := url.Parse(pageURL)

	h.harvestGuess(signals, guess)
	h.harvestMeta(signals, doc)
	h.harvestDocument(signals, doc, base, pageURL)
	h.harvestPublishDate(signals, doc)
	h.harvestJSONLD(signals, doc)

	if base != nil {
		signals.Add(mdclip.FieldSiteName, mdclip.SourceHostname, strings.TrimPrefix(base.Hostname(), "www."))
	}

	return signals, nil
}

func (h *Harvester) harvestGuess(signals *mdclip.Signals, guess *mdclip.ExtractResult) {
	if guess == nil {
		return
	}
	signals.Add(mdclip.FieldTitle, mdclip.SourceExtractor, guess.Title)
	signals.Add(mdclip.FieldByline, mdclip.SourceExtractor, guess.Byline)
	signals.Add(mdclip.FieldSiteName, mdclip.SourceExtractor, guess.SiteName)
	signals.Add(mdclip.FieldDescription, mdclip.SourceExtractor, guess.Excerpt)
	if guess.PublishedTime != nil && !guess.PublishedTime.IsZero() {
		signals.Add(mdclip.FieldPublishDate, mdclip.SourceExtractor, guess.PublishedTime.UTC().Format(time.RFC3339))
	}
}

// harvestMeta indexes every meta tag by its lowercased property, name, or
// itemprop. The first non-blank content for a key wins.
func (h *Harvester) harvestMeta(signals *mdclip.Signals, doc *goquery.Document) {
	index := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		for _, attr := range []string{"property", "name", "itemprop"} {
			key := strings.ToLower(strings.TrimSpace(sel.AttrOr(attr, "")))
			if key == "" {
				continue
			}
			if _, ok := index[key]; !ok {
				index[key] = content
			}
		}
	})

	for _, m := range metaSignals {
		if v, ok := index[m.key]; ok {
			if _, dup := signals.Lookup(m.field, m.source); dup {
				continue
			}
			signals.Add(m.field, m.source, v)
		}
	}
}

func (h *Harvester) harvestDocument(signals *mdclip.Signals, doc *goquery.Document, base *url.URL, pageURL string) {
	signals.Add(mdclip.FieldTitle, mdclip.SourceDocument, doc.Find("title").First().Text())

	if href, ok := doc.Find(`link[rel~="canonical"]`).First().Attr("href"); ok {
		signals.Add(mdclip.FieldCanonicalURL, mdclip.SourceCanonicalLink, resolveURL(base, href))
	}
	signals.Add(mdclip.FieldCanonicalURL, mdclip.SourceDocument, pageURL)
}

func (h *Harvester) harvestPublishDate(signals *mdclip.Signals, doc *goquery.Document) {
	if v, ok := doc.Find("time[pubdate]").First().Attr("datetime"); ok {
		signals.Add(mdclip.FieldPublishDate, mdclip.SourceTimeElement, v)
	}

	match := doc.Find("body").Find(publishSelector).First()
	if match.Length() == 0 {
		return
	}
	if v, ok := match.Attr("datetime"); ok && strings.TrimSpace(v) != "" {
		signals.Add(mdclip.FieldPublishDate, mdclip.SourceTextMatch, v)
		return
	}
	if v, ok := match.Find("time[datetime]").First().Attr("datetime"); ok && strings.TrimSpace(v) != "" {
		signals.Add(mdclip.FieldPublishDate, mdclip.SourceTextMatch, v)
		return
	}
	text := mdclip.CollapseWhitespace(match.Text())
	if text == "" || utf8.RuneCountInString(text) > maxDateTextLength {
		return
	}
	signals.Add(mdclip.FieldPublishDate, mdclip.SourceTextMatch, normalizeDate(text))
}

// normalizeDate returns text as a date or timestamp when it parses, and
// unchanged when it does not.
func normalizeDate(text string) string {
	t, err := dateparse.ParseAny(text)
	if err != nil {
		return text
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func (h *Harvester) harvestJSONLD(signals *mdclip.Signals, doc *goquery.Document) {
	doc.Find(`script[type^="application/ld+json"]`).Each(func(i int, sel *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(sel.Text()), &payload); err != nil {
			h.logger.Debug("skipping malformed JSON-LD", "index", i, "err", err)
			return
		}
		for _, obj := range flattenJSONLD(payload) {
			if _, ok := signals.Lookup(mdclip.FieldSiteName, mdclip.SourceJSONLD); !ok {
				if publisher, ok := obj["publisher"].(map[string]any); ok {
					signals.Add(mdclip.FieldSiteName, mdclip.SourceJSONLD, stringValue(publisher["name"]))
				}
			}
			if _, ok := signals.Lookup(mdclip.FieldByline, mdclip.SourceJSONLD); !ok {
				signals.Add(mdclip.FieldByline, mdclip.SourceJSONLD, authorNames(obj["author"]))
			}
			if _, ok := signals.Lookup(mdclip.FieldTitle, mdclip.SourceJSONLD); !ok {
				signals.Add(mdclip.FieldTitle, mdclip.SourceJSONLD, stringValue(obj["headline"]))
			}
			if _, ok := signals.Lookup(mdclip.FieldPublishDate, mdclip.SourceJSONLD); !ok {
				signals.Add(mdclip.FieldPublishDate, mdclip.SourceJSONLD, stringValue(obj["datePublished"]))
			}
		}
	})
}

// flattenJSONLD returns every object of a JSON-LD payload, descending
// into top-level arrays and @graph containers.
func flattenJSONLD(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, item := range t {
			out = append(out, flattenJSONLD(item)...)
		}
		return out
	case map[string]any:
		out := []map[string]any{t}
		if graph, ok := t["@graph"]; ok {
			out = append(out, flattenJSONLD(graph)...)
		}
		return out
	}
	return nil
}

// authorNames reads a JSON-LD author given as a string, an object with a
// name, or a list of either.
func authorNames(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		return stringValue(t["name"])
	case []any:
		var names []string
		for _, item := range t {
			if name := authorNames(item); strings.TrimSpace(name) != "" {
				names = append(names, name)
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
