package dedupe

import "github.com/matsen/bibtidy/internal/reference"

// Duplicate describes an entry whose title collided with an earlier one.
type Duplicate struct {
	Key           string `json:"key"`
	Title         string `json:"title"`
	OriginalKey   string `json:"original_key"`
	OriginalTitle string `json:"original_title"`
	Stripped      bool   `json:"stripped"`
}

// Index maps title fingerprints to the first entry seen with them.
// It only grows: entries later dropped from the library stay indexed so the
// first-seen entry is always the one reported as original.
type Index struct {
	byPrint map[string]seen
	fp      func(string) string
}

type seen struct {
	key   string
	title string
}

// NewIndex creates an empty index. With foldAccents, diacritics are ignored
// when comparing titles.
func NewIndex(foldAccents bool) *Index {
	fp := Fingerprint
	if foldAccents {
		fp = FoldedFingerprint
	}
	return &Index{byPrint: make(map[string]seen), fp: fp}
}

// Check looks up the title of entry e. If an earlier entry has the same
// fingerprint it returns that collision and leaves the index unchanged;
// otherwise it records e and returns false.
// Titles with an empty fingerprint are never indexed.
func (idx *Index) Check(e *reference.Entry, title string) (Duplicate, bool) {
	key := idx.fp(title)
	if key == "" {
		return Duplicate{}, false
	}
	if first, ok := idx.byPrint[key]; ok {
		return Duplicate{
			Key:           e.Key,
			Title:         title,
			OriginalKey:   first.key,
			OriginalTitle: first.title,
		}, true
	}
	idx.byPrint[key] = seen{key: e.Key, title: title}
	return Duplicate{}, false
}

// Len returns the number of distinct fingerprints indexed.
func (idx *Index) Len() int {
	return len(idx.byPrint)
}
