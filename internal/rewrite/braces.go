package rewrite

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// braceDepths returns the brace depth in front of each rune of s, with one
// extra element for the end of the string. regexp2 reports match positions
// in runes, so depths are indexed the same way.
func braceDepths(s string) []int {
	runes := []rune(s)
	depths := make([]int, len(runes)+1)
	d := 0
	for i, r := range runes {
		depths[i] = d
		switch r {
		case '{':
			d++
		case '}':
			d--
		}
	}
	depths[len(runes)] = d
	return depths
}

// replaceUnprotected rewrites every match of re that starts outside a brace
// group and returns the result with the number of rewritten matches. Matches
// inside protection braces are left untouched and not counted.
func replaceUnprotected(re *regexp2.Regexp, s string, repl func(regexp2.Match) string) (string, int) {
	depths := braceDepths(s)
	n := 0
	out, err := re.ReplaceFunc(s, func(m regexp2.Match) string {
		if depths[m.Index] > 0 {
			return m.String()
		}
		n++
		return repl(m)
	}, -1, -1)
	if err != nil {
		return s, 0
	}
	return out, n
}

// protect wraps s in protection braces.
func protect(s string) string {
	return "{" + s + "}"
}

// hasURL reports whether a field value carries a URL.
func hasURL(v string) bool {
	lv := strings.ToLower(v)
	return strings.Contains(lv, `\url{`) ||
		strings.Contains(lv, "://") ||
		strings.HasPrefix(strings.TrimSpace(lv), "www.")
}

// unwrapURL strips a \url{...} wrapper and any stray braces from v.
func unwrapURL(v string) string {
	v = strings.ReplaceAll(v, `\url{`, "{")
	v = strings.NewReplacer("{", "", "}", "").Replace(v)
	return strings.TrimSpace(v)
}
