package mdclip

import (
	"strings"
	"time"
)

// FormatMarkdown prepends the metadata header block to a rendered body.
// Optional lines are emitted only for non-empty fields; savedAt is written
// as an ISO-8601 timestamp.
func FormatMarkdown(meta Metadata, pageURL string, savedAt time.Time, body string) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(meta.Title)
	b.WriteString("\n\n")

	if meta.Byline != "" {
		b.WriteString("Author: ")
		b.WriteString(meta.Byline)
		b.WriteString("\n")
	}
	if meta.PublishDate != "" {
		b.WriteString("Date: ")
		b.WriteString(meta.PublishDate)
		b.WriteString("\n")
	}
	b.WriteString("Source: ")
	b.WriteString(meta.SiteName)
	b.WriteString("\nURL: ")
	if meta.CanonicalURL != "" {
		b.WriteString(meta.CanonicalURL)
	} else {
		b.WriteString(pageURL)
	}
	b.WriteString("\nDate saved: ")
	b.WriteString(savedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n\n")

	if meta.Description != "" {
		b.WriteString("> ")
		b.WriteString(meta.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String()
}
