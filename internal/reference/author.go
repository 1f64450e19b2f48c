package reference

import (
	"regexp"
	"strings"
)

// AuthorSeparator joins names inside an author or editor field.
const AuthorSeparator = " and "

var andRe = regexp.MustCompile(`(?i)\s+and\s+`)

// Author represents one name from an author field.
type Author struct {
	First string // First/given name(s), empty for single-token names
	Last  string // Last/family name, including any suffix parts
}

// SplitAuthors splits an author field on "and" (any case, any surrounding
// whitespace). Separators inside braces, as in {Barnes and Noble}, are not
// split.
func SplitAuthors(value string) []string {
	var names []string
	start := 0
	for _, loc := range andRe.FindAllStringIndex(value, -1) {
		if braceDepth(value[:loc[0]]) > 0 {
			continue
		}
		names = append(names, strings.TrimSpace(value[start:loc[0]]))
		start = loc[1]
	}
	return append(names, strings.TrimSpace(value[start:]))
}

// ParseAuthor parses a "Last, First" name. The final comma-separated segment
// is taken as the given name and all earlier segments form the family name, so
// "Smith, Jr., John" yields First "John", Last "Smith Jr.".
// Commas inside braces are not separators. Returns false if the name has no
// top-level comma.
func ParseAuthor(name string) (Author, bool) {
	parts := splitTopLevel(name, ',')
	if len(parts) < 2 {
		return Author{}, false
	}
	var last []string
	for _, p := range parts[:len(parts)-1] {
		if p = strings.TrimSpace(p); p != "" {
			last = append(last, p)
		}
	}
	return Author{
		First: strings.TrimSpace(parts[len(parts)-1]),
		Last:  strings.Join(last, " "),
	}, true
}

// FullName formats the author as "First Last".
func (a Author) FullName() string {
	switch {
	case a.First == "":
		return a.Last
	case a.Last == "":
		return a.First
	}
	return a.First + " " + a.Last
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func braceDepth(s string) int {
	return strings.Count(s, "{") - strings.Count(s, "}")
}
