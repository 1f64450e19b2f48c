// Package bibtex reads and writes BibTeX libraries.
package bibtex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matsen/bibtidy/internal/reference"
)

// ErrParse is returned when a library contains blocks that failed to parse.
var ErrParse = errors.New("parse failed")

// BlockKind identifies what a block holds.
type BlockKind int

const (
	EntryBlock    BlockKind = iota // @article{...}, @misc{...}, ...
	CommentBlock                   // @comment{...}
	StringBlock                    // @string{...}
	PreambleBlock                  // @preamble{...}
	TextBlock                      // Free text between blocks
)

// Block is one top-level element of a library, kept in file order.
type Block struct {
	Kind  BlockKind
	Line  int
	Entry *reference.Entry // Set for EntryBlock
	Raw   string           // Verbatim source for every other kind
}

// FailureKind classifies a block that could not be parsed.
type FailureKind string

const (
	DuplicateKey   FailureKind = "duplicate_key"
	DuplicateField FailureKind = "duplicate_field"
	Syntax         FailureKind = "syntax"
)

// Failure describes a block that could not be turned into an entry.
type Failure struct {
	Kind    FailureKind
	Line    int
	Key     string // Entry key, when it could be read
	Message string
	Raw     string
}

func (f Failure) Error() string {
	if f.Key != "" {
		return fmt.Sprintf("line %d: %s (%s): %s", f.Line, f.Kind, f.Key, f.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", f.Line, f.Kind, f.Message)
}

// Library is a parsed .bib file.
type Library struct {
	Blocks []Block
	Failed []Failure
}

// Entries returns the entries in file order.
func (l *Library) Entries() []*reference.Entry {
	var out []*reference.Entry
	for _, b := range l.Blocks {
		if b.Kind == EntryBlock {
			out = append(out, b.Entry)
		}
	}
	return out
}

// Remove deletes the given entries from the library.
func (l *Library) Remove(entries ...*reference.Entry) {
	if len(entries) == 0 {
		return
	}
	drop := make(map[*reference.Entry]bool, len(entries))
	for _, e := range entries {
		drop[e] = true
	}
	kept := l.Blocks[:0]
	for _, b := range l.Blocks {
		if b.Kind == EntryBlock && drop[b.Entry] {
			continue
		}
		kept = append(kept, b)
	}
	l.Blocks = kept
}

// Failures returns the blocks that failed to parse.
func (l *Library) Failures() []Failure {
	return l.Failed
}

// DiscardFailures removes failures of the given kind and returns how many
// were removed.
func (l *Library) DiscardFailures(kind FailureKind) int {
	kept := l.Failed[:0]
	n := 0
	for _, f := range l.Failed {
		if f.Kind == kind {
			n++
			continue
		}
		kept = append(kept, f)
	}
	l.Failed = kept
	return n
}

// Err returns an ErrParse error listing every remaining failure, or nil.
func (l *Library) Err() error {
	if len(l.Failed) == 0 {
		return nil
	}
	msgs := make([]string, len(l.Failed))
	for i, f := range l.Failed {
		msgs[i] = f.Error()
	}
	return fmt.Errorf("%w: %d blocks failed to parse:\n- %s", ErrParse, len(l.Failed), strings.Join(msgs, "\n- "))
}

// Count returns the number of blocks of the given kind.
func (l *Library) Count(kind BlockKind) int {
	n := 0
	for _, b := range l.Blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}
