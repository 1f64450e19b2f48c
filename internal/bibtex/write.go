package bibtex

import (
	"fmt"
	"strings"

	"github.com/matsen/bibtidy/internal/reference"
)

// FormatEntry converts an entry to BibTeX, one field per line in entry order.
// Delimited values are written in braces, bare values verbatim.
func FormatEntry(e *reference.Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, f := range e.Fields {
		if f.Bare {
			b.WriteString(fmt.Sprintf("  %s = %s,\n", f.Name, f.Value))
		} else {
			b.WriteString(fmt.Sprintf("  %s = {%s},\n", f.Name, f.Value))
		}
	}
	b.WriteString("}\n")

	return b.String()
}

// Format converts a library to BibTeX. Comments, @string and @preamble
// blocks and free text are written back verbatim in their original position.
func Format(lib *Library) string {
	var blocks []string
	for _, blk := range lib.Blocks {
		if blk.Kind == EntryBlock {
			blocks = append(blocks, FormatEntry(blk.Entry))
			continue
		}
		blocks = append(blocks, blk.Raw+"\n")
	}
	return strings.Join(blocks, "\n")
}
