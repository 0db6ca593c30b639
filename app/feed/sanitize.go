package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()

	whitespaceRe = regexp.MustCompile(`\s+`)
	// Latin ranges: printable ASCII, Latin-1 supplement, Latin Extended-A.
	latinRangeRe = regexp.MustCompile("[^\x20-\x7E -ÿĀ-ſ]")
	allowlistRe  = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?'-]`)
)

// SanitizeText strips markup and noise from feed-supplied text: HTML tags
// and script blocks go first, entities are decoded, whitespace collapses,
// and anything outside the Latin ranges or the punctuation allowlist is
// dropped.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	clean := stripPolicy.Sanitize(text)
	clean = html.UnescapeString(clean)
	clean = whitespaceRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	clean = latinRangeRe.ReplaceAllString(clean, "")
	clean = allowlistRe.ReplaceAllString(clean, "")
	clean = whitespaceRe.ReplaceAllString(clean, " ")

	return strings.TrimSpace(clean)
}

// Truncate shortens s to at most n bytes of sanitized text.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug: lowercased, non-alphanumeric runs
// collapsed to single hyphens, no leading or trailing hyphen.
func Slugify(title string) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
