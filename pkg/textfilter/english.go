// Package textfilter decides whether a copied selection is worth collecting.
package textfilter

import (
	"regexp"
	"strings"
	"unicode"
)

// whitespace mirrors what a browser regexp treats as \s, so text copied from
// pages containing non-breaking or other Unicode spaces still qualifies.
const whitespace = `\t\n\v\f\r \p{Zs}\x{2028}\x{2029}\x{FEFF}`

// englishPattern accepts ASCII letters, digits, whitespace and a fixed set of
// punctuation. Anything else (CJK, Cyrillic, emoji, ...) rejects the whole string.
var englishPattern = regexp.MustCompile(`^[a-zA-Z0-9` + whitespace + `.,'?!$€£%&"()\[\]{}–—-]+$`)

// IsEligible reports whether candidate consists solely of allowed characters.
// The empty string is never eligible. Strings made only of punctuation or
// whitespace are eligible; there is no linguistic check.
func IsEligible(candidate string) bool {
	if candidate == "" {
		return false
	}
	return englishPattern.MatchString(candidate)
}

// Normalize trims a raw selection the way the capture layer does before classification.
func Normalize(selection string) string {
	return strings.TrimFunc(selection, isSpace)
}

// Classify normalizes selection and reports whether the result is eligible.
func Classify(selection string) (string, bool) {
	text := Normalize(selection)
	return text, IsEligible(text)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
