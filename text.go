package mdclip

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Ellipsis marks truncated values.
const Ellipsis = "…"

// CollapseWhitespace replaces every run of whitespace with a single space
// and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// Truncate caps s at max runes, appending Ellipsis when it cuts.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max]), " ") + Ellipsis
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
