package rewrite

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/reference"
)

// MiscURLConsolidator leaves @misc entries with exactly one URL field,
// wrapped in \url{...}, under the destination name.
type MiscURLConsolidator struct {
	candidates  []string
	destination string
	wrapped     *regexp2.Regexp
}

// NewMiscURLConsolidator compiles the already-wrapped pattern.
func NewMiscURLConsolidator(cfg config.MiscURLConfig) (*MiscURLConsolidator, error) {
	pattern := cfg.WrappedPattern
	if pattern == "" {
		pattern = config.DefaultURLPattern
	}
	re, err := regexp2.Compile(pattern, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("compiling misc_url.wrapped_pattern %q: %w", pattern, err)
	}
	return &MiscURLConsolidator{
		candidates:  cfg.Candidates,
		destination: cfg.Destination,
		wrapped:     re,
	}, nil
}

// pick returns the candidate field to keep: the first, in priority order,
// whose value is already wrapped, else the first that carries a URL.
func (c *MiscURLConsolidator) pick(e *reference.Entry) (string, string, bool) {
	for _, name := range c.candidates {
		v, ok := e.Get(name)
		if !ok {
			continue
		}
		if m, err := c.wrapped.MatchString(v); err == nil && m {
			return name, v, true
		}
	}
	for _, name := range c.candidates {
		if v, ok := e.Get(name); ok && hasURL(v) {
			return name, v, true
		}
	}
	return "", "", false
}

// Consolidate rewrites a @misc entry's URL fields and reports whether the
// entry changed. Other entry types and entries without a URL are left alone.
func (c *MiscURLConsolidator) Consolidate(e *reference.Entry) bool {
	if !e.IsType("misc") {
		return false
	}
	chosen, value, ok := c.pick(e)
	if !ok {
		return false
	}

	changed := false
	for _, name := range c.candidates {
		if !strings.EqualFold(name, chosen) && e.Delete(name) {
			changed = true
		}
	}
	if !strings.EqualFold(chosen, c.destination) {
		e.Delete(c.destination)
		e.Rename(chosen, c.destination)
		changed = true
	}

	url := `\url{` + unwrapURL(value) + `}`
	if url != value {
		e.Set(c.destination, url)
		changed = true
	}
	return changed
}
