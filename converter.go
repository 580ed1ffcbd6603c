package mdclip

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown. Relative link and
	// image URLs are resolved against pageURL when it is set.
	Convert(html string, pageURL string) (string, error)
}
