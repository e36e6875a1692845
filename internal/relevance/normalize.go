package relevance

import (
	"strings"
	"unicode"
)

// Normalize lowercases, strips punctuation and collapses whitespace so
// that name comparison is insensitive to feed formatting quirks.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '-':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Slugify turns a club name into its URL path-segment form.
func Slugify(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "-")
}
