package form

import (
	"strings"
	"unicode"
)

// cleanText trims surrounding space and drops control characters other than
// newline and tab. Everything else, angle brackets included, is kept as typed;
// the form escapes on render and the payload is JSON.
func cleanText(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}
