package pipeline

import (
	"github.com/matsen/bibtidy/internal/citation"
	"github.com/matsen/bibtidy/internal/reference"
)

// Filter removes every entry whose key is not in cites from store and
// returns the removed entries in input order. A nil set disables filtering;
// an empty set drops everything.
func Filter(store Store, cites *citation.Set) []*reference.Entry {
	if cites == nil {
		return nil
	}
	var dropped []*reference.Entry
	for _, e := range store.Entries() {
		if !cites.Contains(e.Key) {
			dropped = append(dropped, e)
		}
	}
	store.Remove(dropped...)
	return dropped
}
