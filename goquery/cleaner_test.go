package goquery_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_Clean(t *testing.T) {
	t.Parallel()

	t.Run("removes catalog noise and keeps the article", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Story</title></head>
<body>
<nav><a href="/">Home Nav Link</a></nav>
<div class="ad">Buy now</div>
<div class="share-buttons">Share this</div>
<div id="comments">First!</div>
<div class="related-posts">More stories</div>
<div class="header">Header text</div>
<article><p>The story text.</p></article>
<footer>Copyright footer</footer>
</body>
</html>`

		cleaned, err := goquery.NewCleaner().Clean(html)

		require.NoError(t, err)
		assert.Contains(t, cleaned, "The story text.")
		assert.Contains(t, cleaned, "Header text")
		assert.Contains(t, cleaned, "<title>Story</title>")
		assert.NotContains(t, cleaned, "Home Nav Link")
		assert.NotContains(t, cleaned, "Buy now")
		assert.NotContains(t, cleaned, "Share this")
		assert.NotContains(t, cleaned, "First!")
		assert.NotContains(t, cleaned, "More stories")
		assert.NotContains(t, cleaned, "Copyright footer")
	})

	t.Run("never removes main landmarks", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<div class="sidebar-layout"><main><p>Main content survives.</p></main></div>
<aside><article><p>Article in aside survives.</p></article></aside>
<div class="sidebar">Sidebar links</div>
</body></html>`

		cleaned, err := goquery.NewCleaner().Clean(html)

		require.NoError(t, err)
		assert.Contains(t, cleaned, "Main content survives.")
		assert.Contains(t, cleaned, "Article in aside survives.")
		assert.NotContains(t, cleaned, "Sidebar links")
	})

	t.Run("keeps an article carrying taxonomy classes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<article class="post tag-social-media category-sidebar">
<p>First paragraph of the post.</p>
<div class="share-buttons">Share this</div>
<p>Second paragraph of the post.</p>
</article>
<div itemprop="articleBody" class="related-content"><p>Schema body text.</p></div>
<div class="widget sidebar"><p>Archives: January, February, March.</p></div>
</body></html>`

		cleaned, err := goquery.NewCleaner().Clean(html)

		require.NoError(t, err)
		assert.Contains(t, cleaned, `<article class="post tag-social-media category-sidebar">`)
		assert.Contains(t, cleaned, "First paragraph of the post.")
		assert.Contains(t, cleaned, "Second paragraph of the post.")
		assert.Contains(t, cleaned, "Schema body text.")
		assert.NotContains(t, cleaned, "Share this", "noise inside the article is still removed")
		assert.NotContains(t, cleaned, "Archives")
	})

	t.Run("removes hidden elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
<p>Visible text.</p>
<p style="display: none">Hidden by display.</p>
<p style="color: red; visibility:hidden !important">Hidden by visibility.</p>
<p hidden>Hidden by attribute.</p>
<p data-mdclip-hidden>Hidden by computed style.</p>
<p style="display: block">Shown block.</p>
</article></body></html>`

		cleaned, err := goquery.NewCleaner().Clean(html)

		require.NoError(t, err)
		assert.Contains(t, cleaned, "Visible text.")
		assert.Contains(t, cleaned, "Shown block.")
		assert.NotContains(t, cleaned, "Hidden by display.")
		assert.NotContains(t, cleaned, "Hidden by visibility.")
		assert.NotContains(t, cleaned, "Hidden by attribute.")
		assert.NotContains(t, cleaned, "Hidden by computed style.")
	})

	t.Run("removes empty paragraphs and divs", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><article>
<p>Text.</p>
<p>   </p>
<div><div> <!-- only a comment --> </div></div>
<div><img src="chart.png"></div>
</article></body></html>`

		cleaned, err := goquery.NewCleaner().Clean(html)

		require.NoError(t, err)
		assert.Contains(t, cleaned, "<p>Text.</p>")
		assert.Contains(t, cleaned, `<div><img src="chart.png"/></div>`)
		assert.NotContains(t, cleaned, "<p>   </p>")
		assert.NotContains(t, cleaned, "only a comment")
	})

	t.Run("skips invalid selectors and applies the rest", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		rules := mdclip.RuleSet{
			Name:    "test",
			Version: 7,
			Rules: []mdclip.Rule{
				{Selector: "div[", Reason: "broken"},
				{Selector: ".promo", Reason: "promotion"},
			},
		}

		cleaner := goquery.NewCleaner(
			goquery.WithCleanupRules(rules),
			goquery.WithCleanerLogger(logger),
		)
		cleaned, err := cleaner.Clean(`<html><body><div class="promo">Promo</div><p>Body text.</p></body></html>`)

		require.NoError(t, err)
		assert.Contains(t, cleaned, "Body text.")
		assert.NotContains(t, cleaned, "Promo")
		assert.Contains(t, logs.String(), "skipping rule")
		assert.Contains(t, logs.String(), "selector=div[")
		assert.Contains(t, logs.String(), "reason=promotion")
	})
}
