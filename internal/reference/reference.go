// Package reference defines the core domain types for bibliography entries.
package reference

import "strings"

// Entry represents one bibliographic record as parsed from a .bib file.
type Entry struct {
	Key    string  // Citation key
	Type   string  // Entry type tag: article, misc, inproceedings, ...
	Fields []Field // Ordered fields, names unique (case-insensitive)
}

// Field is a single name/value pair owned by an Entry.
type Field struct {
	Name  string
	Value string // Raw text between the outer delimiters
	Bare  bool   // Written without delimiters (number, macro, # concatenation)
}

// IsType reports whether the entry type matches t, ignoring case.
func (e *Entry) IsType(t string) bool {
	return strings.EqualFold(e.Type, t)
}

// index returns the position of the named field, or -1.
func (e *Entry) index(name string) int {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return i
		}
	}
	return -1
}

// Has reports whether the entry has a field with the given name.
func (e *Entry) Has(name string) bool {
	return e.index(name) >= 0
}

// Get returns the value of the named field and whether it exists.
func (e *Entry) Get(name string) (string, bool) {
	i := e.index(name)
	if i < 0 {
		return "", false
	}
	return e.Fields[i].Value, true
}

// Field returns a pointer to the named field, or nil if absent.
// The pointer is invalidated by Delete and Sort.
func (e *Entry) Field(name string) *Field {
	i := e.index(name)
	if i < 0 {
		return nil
	}
	return &e.Fields[i]
}

// Set replaces the value of an existing field in place, or appends a new one.
// The Bare flag is cleared since rewritten values are always delimited.
func (e *Entry) Set(name, value string) {
	if i := e.index(name); i >= 0 {
		e.Fields[i].Value = value
		e.Fields[i].Bare = false
		return
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// Delete removes the named field. Returns true if a field was removed.
func (e *Entry) Delete(name string) bool {
	i := e.index(name)
	if i < 0 {
		return false
	}
	e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
	return true
}

// Rename changes the name of a field, keeping its position and value.
// Returns false if the field is absent or the new name is already taken.
func (e *Entry) Rename(from, to string) bool {
	i := e.index(from)
	if i < 0 {
		return false
	}
	if j := e.index(to); j >= 0 && j != i {
		return false
	}
	e.Fields[i].Name = to
	return true
}
