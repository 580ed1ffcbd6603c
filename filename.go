package mdclip

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FileExtension is appended to every generated file name.
const FileExtension = ".md"

// Filename limits, in runes. The whole name, title and site joined, may
// run past MaxTitleLength.
const (
	MaxTitleLength    = 100
	MaxSiteNameLength = 50
)

// MaxFileNameBytes caps the encoded name, extension included. It leaves
// room under the common 255-byte NAME_MAX for a " (n)" copy suffix.
const MaxFileNameBytes = 240

// siteByteShare is the largest part of the byte budget the site name may
// keep when the name has to be shortened.
const siteByteShare = 4

var (
	unsafeCharsRe = regexp.MustCompile(`[/\\:*?"<>|]`)
	controlRe     = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	hyphenRunRe   = regexp.MustCompile(`-{2,}`)
	underRunRe    = regexp.MustCompile(`_{2,}`)
)

// FileName builds "{title} - {siteName}.md" from resolved metadata.
//
// Each part is decoded (percent-escapes and HTML entities), stripped of
// characters that are unsafe in file names, whitespace-collapsed to single
// spaces, and capped in length. The title never comes out empty: it falls
// back to DefaultTitle. The site part is dropped if it sanitizes to nothing.
func FileName(title, siteName string) string {
	t := Truncate(sanitizeNamePart(decodeNamePart(title)), MaxTitleLength)
	if t == "" {
		t = DefaultTitle
	}

	s := Truncate(sanitizeNamePart(decodeNamePart(siteName)), MaxSiteNameLength)
	if s == "" {
		return truncateBytes(t, MaxFileNameBytes-len(FileExtension)) + FileExtension
	}

	const sep = " - "
	budget := MaxFileNameBytes - len(FileExtension)
	if len(t)+len(sep)+len(s) > budget {
		s = truncateBytes(s, budget/siteByteShare)
		t = truncateBytes(t, budget-len(sep)-len(s))
	}
	return t + sep + s + FileExtension
}

// truncateBytes caps s at max bytes without splitting a rune, appending
// Ellipsis when it cuts.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - len(Ellipsis)
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimRight(s[:cut], " ") + Ellipsis
}

func decodeNamePart(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		s = decoded
	}
	return html.UnescapeString(s)
}

func sanitizeNamePart(s string) string {
	s = unsafeCharsRe.ReplaceAllString(s, "-")
	s = CollapseWhitespace(s)
	s = controlRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = underRunRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "-_ .")
}
