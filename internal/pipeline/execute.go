package pipeline

import (
	"fmt"

	"github.com/matsen/bibtidy/internal/bibtex"
	"github.com/matsen/bibtidy/internal/citation"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/dedupe"
	"github.com/matsen/bibtidy/internal/render"
	"github.com/matsen/bibtidy/internal/stats"
	"go.uber.org/zap"
)

// Report is the outcome of a file-to-file run.
type Report struct {
	Input      string             `json:"input"`
	Output     string             `json:"output"`
	TextOutput string             `json:"text_output,omitempty"`
	Entries    int                `json:"entries"`
	Dropped    []string           `json:"dropped,omitempty"`
	Duplicates []dedupe.Duplicate `json:"duplicates,omitempty"`
	Stats      []stats.Counter    `json:"stats"`
}

// LoadCitations extracts the citation set from the configured LaTeX sources.
// It returns nil when no sources are configured. A bad pattern or an
// unreadable source is a configuration error.
func LoadCitations(cfg config.CitationsConfig) (*citation.Set, error) {
	if len(cfg.Sources) == 0 {
		return nil, nil
	}
	x, err := citation.NewExtractor(cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	cites, err := x.ExtractFiles(cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return cites, nil
}

// Execute reads cfg.Input, runs the pipeline and writes cfg.Output and, when
// configured, the text rendering. Every configuration problem is reported
// before the input is read, and nothing is written unless the whole run
// succeeds.
func Execute(cfg *config.Config, log *zap.Logger) (*Report, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if _, err := bibtex.LookupEncoding(cfg.Encoding); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	p, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	var tmpl *render.Template
	if cfg.TextOutput.Path != "" {
		if tmpl, err = render.New(cfg.TextOutput.Template); err != nil {
			return nil, err
		}
	}
	cites, err := LoadCitations(cfg.Citations)
	if err != nil {
		return nil, err
	}

	lib, err := bibtex.ReadFile(cfg.Input, cfg.Encoding)
	if err != nil {
		return nil, err
	}
	log.Info("parsed library",
		zap.String("path", cfg.Input),
		zap.Int("blocks", len(lib.Blocks)),
		zap.Int("entries", lib.Count(bibtex.EntryBlock)),
		zap.Int("comments", lib.Count(bibtex.CommentBlock)),
		zap.Int("strings", lib.Count(bibtex.StringBlock)),
		zap.Int("preambles", lib.Count(bibtex.PreambleBlock)),
		zap.Int("failed", len(lib.Failed)))

	res, err := p.Run(lib, cites)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}

	outs := []bibtex.Output{{Path: cfg.Output, Content: bibtex.Format(lib)}}
	if tmpl != nil {
		outs = append(outs, bibtex.Output{
			Path:    cfg.TextOutput.Path,
			Content: tmpl.RenderAll(res.Kept, res.Stats),
		})
	}
	if err := bibtex.WriteFiles(cfg.Encoding, outs...); err != nil {
		return nil, err
	}

	log.Info("stats", zap.String("counters", res.Stats.String()))
	return &Report{
		Input:      cfg.Input,
		Output:     cfg.Output,
		TextOutput: cfg.TextOutput.Path,
		Entries:    len(res.Kept),
		Dropped:    res.Dropped,
		Duplicates: res.Duplicates,
		Stats:      res.Stats.Counters(),
	}, nil
}
