// Package render formats entries as plain-text citation lines.
//
// Templates use a closed set of {name} placeholders; "{{" and "}}" stand for
// literal braces. A template is only ever substituted, never evaluated.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/reference"
	"github.com/matsen/bibtidy/internal/stats"
)

// Placeholders lists every name a template may reference.
var Placeholders = []string{
	"index", "key", "type", "author", "title", "venue", "booktitle", "journal",
	"year", "url", "howpublished", "publisher", "volume", "number", "pages",
	"doi", "note",
}

// venueSources are tried in order for the derived {venue} placeholder.
var venueSources = []string{"booktitle", "journal", "howpublished", "url"}

var (
	commandRe = regexp.MustCompile(`\\[a-zA-Z]+\s*\{`)
	// A TeX character escape or a bare grouping brace.
	braceRe   = regexp.MustCompile(`\\[&%$#_{}]|[{}]`)
	spaceRe   = regexp.MustCompile(`\s+`)
	andRe     = regexp.MustCompile(`(?i)\s+and\s+`)
)

type part struct {
	literal string
	name    string // Empty for literal parts
}

// Template is a parsed citation line template.
type Template struct {
	parts []part
}

// New parses tmpl. Unknown or unterminated placeholders are configuration
// errors.
func New(tmpl string) (*Template, error) {
	known := make(map[string]bool, len(Placeholders))
	for _, p := range Placeholders {
		known[p] = true
	}

	t := &Template{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			t.parts = append(t.parts, part{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch {
		case c == '{' && strings.HasPrefix(tmpl[i:], "{{"):
			lit.WriteByte('{')
			i++
		case c == '}' && strings.HasPrefix(tmpl[i:], "}}"):
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("%w: template: unterminated placeholder at offset %d", config.ErrInvalidConfig, i)
			}
			name := strings.TrimSpace(tmpl[i+1 : i+end])
			if !known[name] {
				return nil, fmt.Errorf("%w: template: unknown placeholder {%s} (valid: %s)",
					config.ErrInvalidConfig, name, strings.Join(Placeholders, ", "))
			}
			flush()
			t.parts = append(t.parts, part{name: name})
			i += end
		case c == '}':
			return nil, fmt.Errorf("%w: template: unmatched '}' at offset %d (use '}}' for a literal brace)", config.ErrInvalidConfig, i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// Render formats e as one line. index is the 1-based position of e in the
// output. The entry is not modified.
func (t *Template) Render(e *reference.Entry, index int) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.name == "" {
			b.WriteString(p.literal)
			continue
		}
		b.WriteString(value(e, p.name, index))
	}
	return b.String()
}

// RenderAll renders entries one per line, numbering them from 1.
func (t *Template) RenderAll(entries []*reference.Entry, st *stats.Stats) string {
	var b strings.Builder
	for i, e := range entries {
		b.WriteString(t.Render(e, i+1))
		b.WriteByte('\n')
		st.Inc(stats.EntriesRendered)
	}
	return b.String()
}

func value(e *reference.Entry, name string, index int) string {
	switch name {
	case "index":
		return strconv.Itoa(index)
	case "key":
		return e.Key
	case "type":
		return strings.ToLower(e.Type)
	case "venue":
		for _, src := range venueSources {
			if v := field(e, src); v != "" {
				return v
			}
		}
		return ""
	}
	return field(e, name)
}

// field returns the cleaned display form of the named field.
func field(e *reference.Entry, name string) string {
	raw, ok := e.Get(name)
	if !ok {
		return ""
	}
	v := Clean(raw)
	if strings.EqualFold(name, "author") || strings.EqualFold(name, "editor") {
		v = andRe.ReplaceAllString(v, ", ")
	}
	if isURL(name, raw) {
		return v
	}
	return TitleCase(v)
}

// Clean strips protection braces and \command{ wrappers, unescapes TeX
// special characters such as \& and collapses whitespace.
func Clean(v string) string {
	v = commandRe.ReplaceAllString(v, "")
	v = braceRe.ReplaceAllStringFunc(v, func(m string) string {
		if m[0] == '\\' {
			return m[1:]
		}
		return ""
	})
	return strings.TrimSpace(spaceRe.ReplaceAllString(v, " "))
}

// TitleCase upper-cases every letter that starts a word.
func TitleCase(s string) string {
	out := []rune(s)
	prevWord := false
	for i, r := range out {
		word := isWord(r)
		if word && !prevWord {
			out[i] = unicode.ToUpper(r)
		}
		prevWord = word
	}
	return string(out)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isURL(name, raw string) bool {
	if strings.EqualFold(name, "url") {
		return true
	}
	lv := strings.ToLower(raw)
	return strings.Contains(lv, `\url{`) || strings.Contains(lv, "://")
}
