// Package rewrite implements the per-entry field rewriting rules.
//
// Each text rule is a pure function from a field value to the rewritten value
// and the number of substitutions made. A Rewriter bundles the rules compiled
// from one configuration and exposes one method per pipeline stage; a stage
// whose option is off does nothing, and a missing field is never an error.
// Values written without delimiters (numbers, @string macros, concatenations)
// are left verbatim.
package rewrite

import (
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/reference"
	"github.com/matsen/bibtidy/internal/stats"
	"go.uber.org/zap"
)

// Rewriter holds the compiled rules for one configuration.
type Rewriter struct {
	cfg    *config.Config
	venue  *VenueSubstituter
	title  *TitleNormalizer
	url    *MiscURLConsolidator
	pruner *FieldPruner
	log    *zap.Logger
}

// New compiles every pattern in cfg once. Invalid patterns are reported as
// configuration errors before any entry is touched.
func New(cfg *config.Config, log *zap.Logger) (*Rewriter, error) {
	venue, err := NewVenueSubstituter(cfg.Venue.Rules)
	if err != nil {
		return nil, err
	}
	title, err := NewTitleNormalizer(cfg.Title)
	if err != nil {
		return nil, err
	}
	url, err := NewMiscURLConsolidator(cfg.MiscURL)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Rewriter{
		cfg:    cfg,
		venue:  venue,
		title:  title,
		url:    url,
		pruner: NewFieldPruner(cfg.Fields, cfg.MiscURL.Candidates),
		log:    log,
	}, nil
}

// delimited returns the field named name unless it is absent or bare.
func delimited(e *reference.Entry, name string) *reference.Field {
	f := e.Field(name)
	if f == nil || f.Bare {
		return nil
	}
	return f
}

// Venue replaces venue fields using the first matching rule.
func (r *Rewriter) Venue(e *reference.Entry, st *stats.Stats) {
	for _, name := range r.cfg.Venue.Fields {
		f := delimited(e, name)
		if f == nil {
			continue
		}
		canonical, ok := r.venue.Substitute(f.Value)
		if !ok {
			continue
		}
		r.log.Debug("venue replaced",
			zap.String("key", e.Key),
			zap.String("from", f.Value),
			zap.String("to", canonical))
		f.Value = canonical
		st.Inc(stats.BooktitlesReplaced)
	}
}

// Title normalizes the title field.
func (r *Rewriter) Title(e *reference.Entry, st *stats.Stats) {
	if f := delimited(e, "title"); f != nil {
		f.Value = r.title.Normalize(f.Value, st)
	}
}

// Authors reorders "Last, First" names in the configured name fields.
func (r *Rewriter) Authors(e *reference.Entry, st *stats.Stats) {
	if !r.cfg.Authors.Reorder {
		return
	}
	for _, name := range r.cfg.Authors.Fields {
		f := delimited(e, name)
		if f == nil {
			continue
		}
		var n int
		f.Value, n = ReorderAuthors(f.Value)
		st.Add(stats.AuthorsReordered, n)
	}
}

// MiscURL consolidates URL fields of @misc entries.
func (r *Rewriter) MiscURL(e *reference.Entry, st *stats.Stats) {
	if !r.cfg.MiscURL.Enabled {
		return
	}
	if r.url.Consolidate(e) {
		st.Inc(stats.MiscURLsConsolidated)
	}
}

// Prune drops or hides extra fields.
func (r *Rewriter) Prune(e *reference.Entry, st *stats.Stats) {
	st.Add(stats.FieldsDroppedHidden, r.pruner.Prune(e))
}

// Reorder sorts fields into the canonical order.
func (r *Rewriter) Reorder(e *reference.Entry, st *stats.Stats) {
	if !r.cfg.Fields.Sort {
		return
	}
	if SortFields(e, r.cfg.Fields.Order) {
		st.Inc(stats.EntriesSorted)
	}
}
