package mdclip_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/mdclip"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func TestSignals(t *testing.T) {
	t.Parallel()

	t.Run("drops blank values", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldTitle, mdclip.SourceOpenGraph, "  \n ")

		_, ok := s.Lookup(mdclip.FieldTitle, mdclip.SourceOpenGraph)
		assert.False(t, ok)
		assert.Empty(t, s.Candidates(mdclip.FieldTitle))
	})

	t.Run("keeps harvest order", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldTitle, mdclip.SourceDocument, "B")
		s.Add(mdclip.FieldTitle, mdclip.SourceOpenGraph, "A")

		assert.Equal(t, []mdclip.Candidate{
			{Source: mdclip.SourceDocument, Value: "B"},
			{Source: mdclip.SourceOpenGraph, Value: "A"},
		}, s.Candidates(mdclip.FieldTitle))
	})

	t.Run("candidates are a copy", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldByline, mdclip.SourceMeta, "Ada")

		got := s.Candidates(mdclip.FieldByline)
		got[0].Value = "changed"

		v, _ := s.Lookup(mdclip.FieldByline, mdclip.SourceMeta)
		assert.Equal(t, "Ada", v)
	})

	t.Run("nil signals are empty", func(t *testing.T) {
		t.Parallel()

		var s *mdclip.Signals

		_, ok := s.Lookup(mdclip.FieldTitle, mdclip.SourceDocument)
		assert.False(t, ok)
		assert.Nil(t, s.Candidates(mdclip.FieldTitle))
	})
}

func TestResolve(t *testing.T) {
	t.Parallel()

	t.Run("open graph title beats document title", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldTitle, mdclip.SourceDocument, "B")
		s.Add(mdclip.FieldTitle, mdclip.SourceOpenGraph, "A")

		assert.Equal(t, "A", mdclip.Resolve(s, now).Title)
	})

	t.Run("title precedence", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldTitle, mdclip.SourceDocument, "Document")
		s.Add(mdclip.FieldTitle, mdclip.SourceExtractor, "Extractor")
		assert.Equal(t, "Extractor", mdclip.Resolve(s, now).Title)

		s.Add(mdclip.FieldTitle, mdclip.SourceTwitter, "Twitter")
		assert.Equal(t, "Twitter", mdclip.Resolve(s, now).Title)
	})

	t.Run("falls back to defaults without signals", func(t *testing.T) {
		t.Parallel()

		meta := mdclip.Resolve(mdclip.NewSignals(), now)

		assert.Equal(t, mdclip.Metadata{
			Title:       "Untitled",
			PublishDate: "2025-01-02T03:04:05Z",
		}, meta)
	})

	t.Run("site name prefers open graph over the extractor and hostname", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldSiteName, mdclip.SourceHostname, "example.com")
		s.Add(mdclip.FieldSiteName, mdclip.SourceExtractor, "Extractor Site")
		assert.Equal(t, "Extractor Site", mdclip.Resolve(s, now).SiteName)

		s.Add(mdclip.FieldSiteName, mdclip.SourceOpenGraph, "OG Site")
		assert.Equal(t, "OG Site", mdclip.Resolve(s, now).SiteName)
	})

	t.Run("missing JSON-LD falls through to hostname", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldSiteName, mdclip.SourceJSONLD, "")
		s.Add(mdclip.FieldSiteName, mdclip.SourceHostname, "example.com")

		assert.Equal(t, "example.com", mdclip.Resolve(s, now).SiteName)
	})

	t.Run("byline, description and date precedence", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldByline, mdclip.SourceDublinCore, "DC Creator")
		s.Add(mdclip.FieldByline, mdclip.SourceMeta, "Meta Author")
		s.Add(mdclip.FieldDescription, mdclip.SourceMeta, "Meta description")
		s.Add(mdclip.FieldDescription, mdclip.SourceExtractor, "Excerpt")
		s.Add(mdclip.FieldPublishDate, mdclip.SourceDublinCore, "2024-01-01")
		s.Add(mdclip.FieldPublishDate, mdclip.SourceArticle, "2024-02-02T00:00:00Z")

		meta := mdclip.Resolve(s, now)

		assert.Equal(t, "Meta Author", meta.Byline)
		assert.Equal(t, "Excerpt", meta.Description)
		assert.Equal(t, "2024-02-02T00:00:00Z", meta.PublishDate)
	})

	t.Run("canonical link beats document URL", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldCanonicalURL, mdclip.SourceDocument, "https://example.com/a?utm=1")
		s.Add(mdclip.FieldCanonicalURL, mdclip.SourceCanonicalLink, "https://example.com/a")

		assert.Equal(t, "https://example.com/a", mdclip.Resolve(s, now).CanonicalURL)
	})

	t.Run("collapses whitespace and caps length", func(t *testing.T) {
		t.Parallel()

		s := mdclip.NewSignals()
		s.Add(mdclip.FieldTitle, mdclip.SourceOpenGraph, "  A \n\t  title  ")
		s.Add(mdclip.FieldDescription, mdclip.SourceOpenGraph, strings.Repeat("d", 600))

		meta := mdclip.Resolve(s, now)

		assert.Equal(t, "A title", meta.Title)
		assert.Equal(t, strings.Repeat("d", mdclip.MaxFieldLength)+mdclip.Ellipsis, meta.Description)
	})
}

func TestFirstPresent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "b c", mdclip.FirstPresent("", "  ", " b \n c", "d"))
	assert.Empty(t, mdclip.FirstPresent())
	assert.Empty(t, mdclip.FirstPresent(" ", "\t"))
}
