// Package stats collects the counters reported at the end of a run.
package stats

import (
	"fmt"
	"strings"
)

// Counter names incremented by the pipeline stages.
const (
	CitesFound           = "latex_cites_found"
	EntriesDropped       = "entries_dropped"
	DupKeys              = "dup_keys"
	DupTitles            = "dup_titles"
	DupTitlesStripped    = "dup_titles_stripped"
	FieldsDroppedHidden  = "fields_dropped_or_hidden"
	BooktitlesReplaced   = "booktitles_replaced"
	TitleCapsStripped    = "title_caps_stripped"
	TitleCamelCapsAdded  = "title_camel_caps_added"
	TitleColonCapsAdded  = "title_colon_caps_added"
	TitleCapsReplaced    = "title_caps_replaced"
	TitleEscapesFixed    = "title_escapes_fixed"
	AuthorsReordered     = "authors_reordered"
	MiscURLsConsolidated = "misc_urls_consolidated"
	EntriesSorted        = "entries_sorted"
	EntriesRendered      = "entries_rendered"
)

// DefaultNames lists the counters every report contains, in report order.
var DefaultNames = []string{
	CitesFound,
	EntriesDropped,
	DupKeys,
	DupTitles,
	DupTitlesStripped,
	FieldsDroppedHidden,
	BooktitlesReplaced,
	TitleCapsStripped,
	TitleCamelCapsAdded,
	TitleColonCapsAdded,
	TitleCapsReplaced,
	TitleEscapesFixed,
	AuthorsReordered,
	MiscURLsConsolidated,
	EntriesSorted,
	EntriesRendered,
}

// Counter is a single named count in a report.
type Counter struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats holds increment-only counters for a single run.
// It is owned by one pipeline and is not safe for concurrent use.
type Stats struct {
	counts map[string]int
	order  []string
}

// New creates a Stats with every default counter at zero.
func New() *Stats {
	s := &Stats{counts: make(map[string]int)}
	for _, name := range DefaultNames {
		s.register(name)
	}
	return s
}

func (s *Stats) register(name string) {
	if _, ok := s.counts[name]; !ok {
		s.counts[name] = 0
		s.order = append(s.order, name)
	}
}

// Add increments a counter by n. Non-positive n is ignored.
func (s *Stats) Add(name string, n int) {
	if n <= 0 {
		return
	}
	s.register(name)
	s.counts[name] += n
}

// Inc increments a counter by one.
func (s *Stats) Inc(name string) {
	s.Add(name, 1)
}

// Get returns the current value of a counter.
func (s *Stats) Get(name string) int {
	return s.counts[name]
}

// Counters returns all counters in report order.
func (s *Stats) Counters() []Counter {
	out := make([]Counter, len(s.order))
	for i, name := range s.order {
		out[i] = Counter{Name: name, Value: s.counts[name]}
	}
	return out
}

// String formats the counters as "name=value" pairs in report order.
func (s *Stats) String() string {
	parts := make([]string, len(s.order))
	for i, name := range s.order {
		parts[i] = fmt.Sprintf("%s=%d", name, s.counts[name])
	}
	return strings.Join(parts, " ")
}
