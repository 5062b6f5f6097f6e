// Package sanitize provides text sanitization for user-supplied input.
// Search terms are whitelisted so they can never alter ILIKE pattern
// semantics; free text is stripped of HTML and NUL bytes before storage.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// searchTermAllowed keeps letters, digits, whitespace and the handful of
	// punctuation that appears in legitimate company/city names ("O'Brien",
	// "Wrap & Shine", "St. Louis"). Everything else — including SQL LIKE
	// metacharacters % and _ — is removed.
	searchTermAllowed = regexp.MustCompile(`[^a-zA-Z0-9\s\-.'&]`)

	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
)

// DefaultSearchTermLength bounds search terms before they reach the query builder.
const DefaultSearchTermLength = 80

// SearchTerm strips characters outside the search whitelist and truncates the
// result to maxLength runes. Pass 0 to use DefaultSearchTermLength.
func SearchTerm(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultSearchTermLength
	}
	trimmed := strings.TrimSpace(s)
	if runes := []rune(trimmed); len(runes) > maxLength {
		trimmed = string(runes[:maxLength])
	}
	return searchTermAllowed.ReplaceAllString(trimmed, "")
}

// PlainText trims, truncates to maxLength runes, and removes NUL bytes.
// Use for user-provided text fields like descriptions and requirements.
func PlainText(s string, maxLength int) string {
	trimmed := strings.TrimSpace(s)
	if maxLength > 0 {
		if runes := []rune(trimmed); len(runes) > maxLength {
			trimmed = string(runes[:maxLength])
		}
	}
	return strings.ReplaceAll(trimmed, "\x00", "")
}

// StripHTML removes all HTML tags from a string, making it safe for text-only
// display. This is a defense-in-depth measure; frontend should also escape output.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}
