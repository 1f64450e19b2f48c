package rewrite

import (
	"sort"
	"strings"

	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/reference"
)

// FieldPruner drops or hides fields outside the keep-list.
type FieldPruner struct {
	mode      string
	keep      map[string]bool
	extra     map[string]bool
	stripURLs bool
	urlFields map[string]bool
}

// NewFieldPruner builds a pruner. urlFields names the URL-bearing fields
// stripped from non-misc entries when cfg.StripURLs is set.
func NewFieldPruner(cfg config.FieldsConfig, urlFields []string) *FieldPruner {
	return &FieldPruner{
		mode:      cfg.Mode,
		keep:      nameSet(cfg.Order),
		extra:     nameSet(cfg.Extra),
		stripURLs: cfg.StripURLs,
		urlFields: nameSet(urlFields),
	}
}

func (p *FieldPruner) isExtra(name string) bool {
	name = strings.ToLower(name)
	if p.extra[name] {
		return true
	}
	return len(p.keep) > 0 && !p.keep[name]
}

func (p *FieldPruner) isStrippedURL(e *reference.Entry, f reference.Field) bool {
	return p.stripURLs && !e.IsType("misc") && p.urlFields[strings.ToLower(f.Name)] && hasURL(f.Value)
}

// Prune applies the configured mode to e and returns the number of fields
// dropped or hidden. Fields already hidden are left alone.
func (p *FieldPruner) Prune(e *reference.Entry) int {
	n := 0
	for _, f := range append([]reference.Field(nil), e.Fields...) {
		if strings.HasPrefix(f.Name, config.HiddenPrefix) {
			continue
		}
		if p.isStrippedURL(e, f) {
			e.Delete(f.Name)
			n++
			continue
		}
		if p.mode == config.ModeOff || !p.isExtra(f.Name) {
			continue
		}
		hidden := config.HiddenPrefix + f.Name
		if p.mode == config.ModeDrop || e.Has(hidden) {
			e.Delete(f.Name)
		} else {
			e.Rename(f.Name, hidden)
		}
		n++
	}
	return n
}

// SortFields orders fields by their position in order. Fields not listed
// keep their relative order after all listed ones. Reports whether the
// order changed.
func SortFields(e *reference.Entry, order []string) bool {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		if _, ok := rank[strings.ToLower(name)]; !ok {
			rank[strings.ToLower(name)] = i
		}
	}
	rankOf := func(f reference.Field) int {
		if r, ok := rank[strings.ToLower(f.Name)]; ok {
			return r
		}
		return len(order)
	}

	sorted := sort.SliceIsSorted(e.Fields, func(i, j int) bool {
		return rankOf(e.Fields[i]) < rankOf(e.Fields[j])
	})
	if sorted {
		return false
	}
	sort.SliceStable(e.Fields, func(i, j int) bool {
		return rankOf(e.Fields[i]) < rankOf(e.Fields[j])
	})
	return true
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
