// Package pipeline drives one tidy run: citation filtering, then the
// per-entry rewrite stages in input order, with duplicate title detection.
//
// The title index and counters are created fresh by every Run, so one
// Pipeline can be reused across libraries.
package pipeline

import (
	"fmt"

	"github.com/matsen/bibtidy/internal/bibtex"
	"github.com/matsen/bibtidy/internal/citation"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/dedupe"
	"github.com/matsen/bibtidy/internal/reference"
	"github.com/matsen/bibtidy/internal/rewrite"
	"github.com/matsen/bibtidy/internal/stats"
	"go.uber.org/zap"
)

// Store is the parsed record collection the pipeline works on.
// *bibtex.Library implements it.
type Store interface {
	Entries() []*reference.Entry
	Remove(entries ...*reference.Entry)
	Failures() []bibtex.Failure
	DiscardFailures(kind bibtex.FailureKind) int
	Err() error
}

// Result summarizes a finished run.
type Result struct {
	Kept       []*reference.Entry
	Dropped    []string // Keys removed as uncited
	Duplicates []dedupe.Duplicate
	Stats      *stats.Stats
}

// Pipeline applies one configuration to record stores.
type Pipeline struct {
	cfg *config.Config
	rw  *rewrite.Rewriter
	log *zap.Logger
}

// New compiles the rewrite rules for cfg. Invalid patterns are reported as
// config.ErrInvalidConfig.
func New(cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rw, err := rewrite.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return &Pipeline{cfg: cfg, rw: rw, log: log}, nil
}

// Run processes every entry of store in input order. cites is the citation
// set from the LaTeX sources, or nil when none are configured.
//
// Parse failures are resolved first: duplicate-key blocks are discarded and
// counted when tolerated, and any remaining failure aborts the run before a
// single entry is touched.
func (p *Pipeline) Run(store Store, cites *citation.Set) (*Result, error) {
	st := stats.New()
	if err := p.resolveFailures(store, st); err != nil {
		return nil, err
	}

	res := &Result{Stats: st}
	if cites != nil {
		st.Add(stats.CitesFound, cites.Len())
	}
	for _, e := range Filter(store, cites) {
		p.log.Debug("dropping uncited entry", zap.String("key", e.Key))
		res.Dropped = append(res.Dropped, e.Key)
	}
	st.Add(stats.EntriesDropped, len(res.Dropped))

	index := dedupe.NewIndex(p.cfg.Duplicates.FoldAccents)
	var stripped []*reference.Entry
	for _, e := range store.Entries() {
		dup, isDup := p.process(e, index, st)
		if !isDup {
			continue
		}
		res.Duplicates = append(res.Duplicates, dup)
		if dup.Stripped {
			stripped = append(stripped, e)
		}
	}
	store.Remove(stripped...)

	res.Kept = store.Entries()
	p.log.Info("run complete",
		zap.Int("entries", len(res.Kept)),
		zap.Int("dropped", len(res.Dropped)),
		zap.Int("duplicates", len(res.Duplicates)),
		zap.Int("distinct_titles", index.Len()))
	return res, nil
}

// process runs the rewrite stages on one entry. When the entry's title
// duplicates an earlier one and stripping is on, the remaining stages are
// skipped and the returned Duplicate is marked stripped.
func (p *Pipeline) process(e *reference.Entry, index *dedupe.Index, st *stats.Stats) (dedupe.Duplicate, bool) {
	p.rw.Venue(e, st)

	raw, hasTitle := e.Get("title")
	p.rw.Title(e, st)

	var dup dedupe.Duplicate
	isDup := false
	if hasTitle {
		title := raw
		if p.cfg.Duplicates.Fingerprint == config.FingerprintNormalized {
			title, _ = e.Get("title")
		}
		dup, isDup = index.Check(e, title)
	}
	if isDup {
		dup.Stripped = p.cfg.Duplicates.Strip
		p.log.Warn("possible duplicate title",
			zap.String("key", dup.Key),
			zap.String("title", dup.Title),
			zap.String("original_key", dup.OriginalKey),
			zap.String("original_title", dup.OriginalTitle))
		st.Inc(stats.DupTitles)
		if dup.Stripped {
			st.Inc(stats.DupTitlesStripped)
			return dup, true
		}
	}

	p.rw.Authors(e, st)
	p.rw.MiscURL(e, st)
	p.rw.Prune(e, st)
	p.rw.Reorder(e, st)
	return dup, isDup
}

// resolveFailures discards tolerated duplicate-key failures and returns an
// error wrapping bibtex.ErrParse if any other failure remains.
func (p *Pipeline) resolveFailures(store Store, st *stats.Stats) error {
	if p.cfg.IgnoreDuplicateKeys {
		for _, f := range store.Failures() {
			if f.Kind == bibtex.DuplicateKey {
				p.log.Warn("ignoring duplicate key", zap.String("key", f.Key), zap.Int("line", f.Line))
			}
		}
		st.Add(stats.DupKeys, store.DiscardFailures(bibtex.DuplicateKey))
	}
	return store.Err()
}
