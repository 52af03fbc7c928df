// internal/search/normalize.go
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares text for matching: NFD decomposition, removal of
// combining marks (covers Latin accents and Arabic diacritics), keeping only
// letters, digits and spaces, collapsing runs of whitespace, lowercasing.
func Normalize(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastSpace := true
	for _, r := range decomposed {
		switch {
		case unicode.IsMark(r):
			// combining marks dropped
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastSpace = false
		case unicode.IsSpace(r) || isSeparatorPunct(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// isSeparatorPunct treats word-separating punctuation as whitespace so that
// "foo-bar" matches "foo bar".
func isSeparatorPunct(r rune) bool {
	switch r {
	case '-', '_', '/', '.', ',', ':', ';':
		return true
	}
	return false
}
