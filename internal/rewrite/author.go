package rewrite

import (
	"strings"

	"github.com/matsen/bibtidy/internal/reference"
)

// ReorderAuthors rewrites "Last, First" names to "First Last" and returns the
// number of names reordered. Names without a comma pass through unchanged.
// Values without any comma are returned as is.
func ReorderAuthors(value string) (string, int) {
	if !strings.Contains(value, ",") {
		return value, 0
	}

	names := reference.SplitAuthors(value)
	n := 0
	for i, name := range names {
		a, ok := reference.ParseAuthor(name)
		if !ok {
			continue
		}
		names[i] = a.FullName()
		n++
	}
	return strings.Join(names, reference.AuthorSeparator), n
}
