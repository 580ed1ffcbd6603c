package trafilatura_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Blog</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the blog post, long enough to be kept as the article body.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html, "https://example.com/start", mdclip.MetadataExtractOptions)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("extracts main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/posts">Posts</a></nav>
<article>
<h1>Release notes</h1>
<p>This is important article content that should be extracted from the page.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html, "https://example.com/notes", mdclip.ContentExtractOptions)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "important article content")
		assert.Contains(t, result.ContentHTML, "func main()")
		assert.NotContains(t, result.ContentHTML, "Copyright 2024")
	})

	t.Run("strips classes when asked", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<p class="intro">An introduction paragraph with enough words to count as real content for the extractor.</p>
<p class="body">A body paragraph that continues the article with yet more words and detail.</p>
</article>
</body>
</html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html, "", mdclip.ExtractOptions{StripClasses: true, DropEmptyNodes: true})

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, `class=`)
	})

	t.Run("does not repeat short content after the title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Hi</title></head><body><article><p>Hello world.</p></article></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html, "https://example.com/hi", mdclip.ContentExtractOptions)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, "HiHello")
		assert.Equal(t, 1, strings.Count(result.ContentHTML, "Hello world."))
	})

	t.Run("keeps a closing paragraph that adds text", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Notes</title></head><body><article>
<p>The first paragraph of these notes is long enough to stand on its own as content.</p>
<p>The closing paragraph says something new about the notes and must stay in place.</p>
</article></body></html>`

		ext := trafilatura.NewExtractor()
		result, err := ext.Extract(html, "https://example.com/notes", mdclip.ContentExtractOptions)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "first paragraph")
		assert.Contains(t, result.ContentHTML, "closing paragraph")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		ext := trafilatura.NewExtractor()
		_, err := ext.Extract("", "", mdclip.ContentExtractOptions)

		require.Error(t, err)
		assert.Equal(t, mdclip.EINVALID, mdclip.ErrorCode(err))
	})
}
