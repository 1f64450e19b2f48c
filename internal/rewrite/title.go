package rewrite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/stats"
)

var (
	// A word with an uppercase letter after its first character, not
	// already wrapped and not a \command name.
	camelRe = regexp2.MustCompile(`(?<![{\\])\b(\w+[A-Z]\w*)\b(?!\})`, regexp2.None)

	// ": " followed by a lowercase word.
	colonRe = regexp2.MustCompile(`(: )([a-z])(\w*)`, regexp2.None)

	escapeFixer = strings.NewReplacer(`$\{$`, "{", `$\}$`, "}")
)

type phraseRule struct {
	re     *regexp2.Regexp
	phrase string
}

// TitleNormalizer applies the title capitalization steps in fixed order:
// escape fixing, brace stripping, camel-case protection, post-colon
// capitalization and fixed-phrase capitalization. Later steps assume the
// earlier ones already ran.
type TitleNormalizer struct {
	cfg     config.TitleConfig
	phrases []phraseRule
}

// NewTitleNormalizer compiles the fixed-phrase rules. Longer phrases are
// applied first so "C/C++" is protected before "C++" can match inside it.
func NewTitleNormalizer(cfg config.TitleConfig) (*TitleNormalizer, error) {
	caps := append([]string(nil), cfg.Caps...)
	sort.SliceStable(caps, func(i, j int) bool {
		return len(caps[i]) > len(caps[j])
	})

	n := &TitleNormalizer{cfg: cfg}
	for _, c := range caps {
		if strings.TrimSpace(c) == "" {
			continue
		}
		pattern := `(?<![\w{])` + regexp2.Escape(c) + `(?![\w}])`
		re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("compiling title phrase %q: %w", c, err)
		}
		n.phrases = append(n.phrases, phraseRule{re: re, phrase: c})
	}
	return n, nil
}

// FixEscaping turns escaped protection braces ($\{$ and $\}$) back into
// plain braces.
func FixEscaping(s string) (string, int) {
	n := strings.Count(s, `$\{$`) + strings.Count(s, `$\}$`)
	if n == 0 {
		return s, 0
	}
	return escapeFixer.Replace(s), n
}

// StripCaps removes every brace, dropping existing manual protection.
func StripCaps(s string) (string, int) {
	n := strings.Count(s, "{") + strings.Count(s, "}")
	if n == 0 {
		return s, 0
	}
	return strings.NewReplacer("{", "", "}", "").Replace(s), n
}

// CamelCaps protects words with internal capitals, such as "iPhone" or
// "LLVM", so bibliography styles do not lowercase them.
func CamelCaps(s string) (string, int) {
	return replaceUnprotected(camelRe, s, func(m regexp2.Match) string {
		return protect(m.String())
	})
}

// ColonCaps capitalizes and protects a lowercase word following ": ".
// Words that are already capitalized are left alone.
func ColonCaps(s string) (string, int) {
	return replaceUnprotected(colonRe, s, func(m regexp2.Match) string {
		g := m.Groups()
		return g[1].String() + protect(strings.ToUpper(g[2].String())+g[3].String())
	})
}

// PhraseCaps replaces whole-word, case-insensitive occurrences of the
// configured phrases with their canonical casing in protection braces.
func (n *TitleNormalizer) PhraseCaps(s string) (string, int) {
	total := 0
	for _, p := range n.phrases {
		var c int
		s, c = replaceUnprotected(p.re, s, func(regexp2.Match) string {
			return protect(p.phrase)
		})
		total += c
	}
	return s, total
}

// Normalize runs the enabled steps on a title and records their counts.
func (n *TitleNormalizer) Normalize(s string, st *stats.Stats) string {
	var c int
	if n.cfg.FixEscaping {
		s, c = FixEscaping(s)
		st.Add(stats.TitleEscapesFixed, c)
	}
	if n.cfg.StripCaps {
		s, c = StripCaps(s)
		st.Add(stats.TitleCapsStripped, c)
	}
	if n.cfg.CamelCaps {
		s, c = CamelCaps(s)
		st.Add(stats.TitleCamelCapsAdded, c)
	}
	if n.cfg.ColonCaps {
		s, c = ColonCaps(s)
		st.Add(stats.TitleColonCapsAdded, c)
	}
	s, c = n.PhraseCaps(s)
	st.Add(stats.TitleCapsReplaced, c)
	return s
}
