package mdclip

import "time"

// Field names a metadata field of a clip.
type Field string

// Metadata fields.
const (
	FieldTitle        Field = "title"
	FieldByline       Field = "byline"
	FieldSiteName     Field = "siteName"
	FieldDescription  Field = "description"
	FieldPublishDate  Field = "publishDate"
	FieldCanonicalURL Field = "canonicalUrl"
)

// Source names the schema a metadata candidate was found in.
type Source string

// Metadata sources.
const (
	SourceExtractor     Source = "extractor"
	SourceOpenGraph     Source = "og"
	SourceTwitter       Source = "twitter"
	SourceDublinCore    Source = "dc"
	SourceMeta          Source = "meta"
	SourceJSONLD        Source = "jsonld"
	SourceArticle       Source = "article"
	SourceTimeElement   Source = "time"
	SourceTextMatch     Source = "text"
	SourceDocument      Source = "document"
	SourceHostname      Source = "hostname"
	SourceCanonicalLink Source = "canonical"
)

// Candidate is one value found for a field in one schema.
type Candidate struct {
	Source Source
	Value  string
}

// Signals holds every metadata candidate found on a page, per field, in
// the order they were harvested. Signals are append-only: once a
// harvester returns them nothing removes or rewrites a candidate.
type Signals struct {
	candidates map[Field][]Candidate
}

// NewSignals returns an empty set of signals.
func NewSignals() *Signals {
	return &Signals{candidates: make(map[Field][]Candidate)}
}

// Add records a candidate. Blank values are not candidates and are dropped.
func (s *Signals) Add(field Field, source Source, value string) {
	if isBlank(value) {
		return
	}
	s.candidates[field] = append(s.candidates[field], Candidate{Source: source, Value: value})
}

// Candidates returns a copy of the candidates recorded for field.
func (s *Signals) Candidates(field Field) []Candidate {
	if s == nil {
		return nil
	}
	return append([]Candidate(nil), s.candidates[field]...)
}

// Lookup returns the first candidate recorded for field from source.
func (s *Signals) Lookup(field Field, source Source) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, c := range s.candidates[field] {
		if c.Source == source {
			return c.Value, true
		}
	}
	return "", false
}

// Metadata is the resolved, sanitized metadata of a clip.
type Metadata struct {
	Title        string
	Byline       string
	SiteName     string
	Description  string
	PublishDate  string
	CanonicalURL string
}

// DefaultTitle is used when no source yields a title.
const DefaultTitle = "Untitled"

// MaxFieldLength caps every resolved metadata field, in runes.
const MaxFieldLength = 512

// Precedence lists, per field, the sources consulted in order. The first
// source with a non-blank candidate wins. Open Graph site names win over
// the extractor's guess.
var Precedence = map[Field][]Source{
	FieldTitle:        {SourceOpenGraph, SourceTwitter, SourceExtractor, SourceDocument, SourceDublinCore, SourceJSONLD},
	FieldByline:       {SourceExtractor, SourceMeta, SourceDublinCore, SourceTwitter, SourceJSONLD},
	FieldSiteName:     {SourceOpenGraph, SourceExtractor, SourceMeta, SourceJSONLD, SourceHostname},
	FieldDescription:  {SourceOpenGraph, SourceExtractor, SourceMeta, SourceTwitter, SourceDublinCore},
	FieldPublishDate:  {SourceArticle, SourceTimeElement, SourceTextMatch, SourceDublinCore, SourceJSONLD, SourceExtractor},
	FieldCanonicalURL: {SourceCanonicalLink, SourceDocument},
}

// Resolve merges harvested signals into one Metadata record using
// Precedence. It touches no DOM and depends only on its arguments; now is
// the last-resort publish date.
func Resolve(signals *Signals, now time.Time) Metadata {
	title := resolveField(signals, FieldTitle)
	if title == "" {
		title = DefaultTitle
	}

	publishDate := resolveField(signals, FieldPublishDate)
	if publishDate == "" {
		publishDate = now.UTC().Format(time.RFC3339)
	}

	return Metadata{
		Title:        title,
		Byline:       resolveField(signals, FieldByline),
		SiteName:     resolveField(signals, FieldSiteName),
		Description:  resolveField(signals, FieldDescription),
		PublishDate:  publishDate,
		CanonicalURL: resolveField(signals, FieldCanonicalURL),
	}
}

func resolveField(signals *Signals, field Field) string {
	values := make([]string, 0, len(Precedence[field]))
	for _, source := range Precedence[field] {
		if v, ok := signals.Lookup(field, source); ok {
			values = append(values, v)
		}
	}
	return Truncate(FirstPresent(values...), MaxFieldLength)
}

// FirstPresent returns the first value that is non-blank after
// whitespace collapsing, collapsed. Returns "" if none is.
func FirstPresent(values ...string) string {
	for _, v := range values {
		if v = CollapseWhitespace(v); v != "" {
			return v
		}
	}
	return ""
}
