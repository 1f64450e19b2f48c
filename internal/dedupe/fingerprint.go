// Package dedupe detects duplicate entries by normalized title.
package dedupe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fingerprint reduces a title to its lower-cased word characters, so titles
// differing only in punctuation, case, spacing or protection braces compare
// equal. Word characters are Unicode letters, numbers and underscore.
func Fingerprint(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if isWord(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldedFingerprint is Fingerprint with diacritics removed first, so
// "Schrödinger" and "Schrodinger" compare equal.
func FoldedFingerprint(title string) string {
	folded, _, err := transform.String(stripAccents, title)
	if err != nil {
		return Fingerprint(title)
	}
	return Fingerprint(folded)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
