// Package citation extracts cited keys from LaTeX sources.
package citation

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Set is an immutable set of cited keys.
// A nil *Set means no sources were configured and nothing is filtered.
type Set struct {
	keys map[string]struct{}
}

// NewSet builds a set from keys. Duplicates collapse.
func NewSet(keys ...string) *Set {
	s := &Set{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// Contains reports whether key was cited.
func (s *Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Keys returns the keys in sorted order.
func (s *Set) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Extractor finds citation references using a pattern whose first capture
// group holds a comma-separated key list, as in \cite{a,b,c}.
type Extractor struct {
	re *regexp2.Regexp
}

// NewExtractor compiles the reference pattern.
func NewExtractor(pattern string) (*Extractor, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compiling citation pattern %q: %w", pattern, err)
	}
	if n := len(re.GetGroupNumbers()); n < 2 {
		return nil, fmt.Errorf("citation pattern %q must have a capture group for the key list", pattern)
	}
	return &Extractor{re: re}, nil
}

// Keys returns every cited key in text, in order of appearance, with repeats.
// Line breaks are collapsed first so a reference split across lines is found.
func (x *Extractor) Keys(text string) ([]string, error) {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)

	var keys []string
	m, err := x.re.FindStringMatch(text)
	for m != nil && err == nil {
		for _, tok := range strings.Split(m.GroupByNumber(1).String(), ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				keys = append(keys, tok)
			}
		}
		m, err = x.re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("matching citations: %w", err)
	}
	return keys, nil
}

// Extract returns the union of keys cited across all texts.
func (x *Extractor) Extract(texts ...string) (*Set, error) {
	s := NewSet()
	for _, text := range texts {
		keys, err := x.Keys(text)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			s.keys[k] = struct{}{}
		}
	}
	return s, nil
}

// ExtractFiles reads each source whole and returns the union of cited keys.
// With no paths it returns nil, meaning citation filtering is off.
func (x *Extractor) ExtractFiles(paths []string) (*Set, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	texts := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading citation source: %w", err)
		}
		texts = append(texts, string(data))
	}
	return x.Extract(texts...)
}
