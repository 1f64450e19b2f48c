package dedupe

import (
	"testing"

	"github.com/matsen/bibtidy/internal/reference"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"braces and colon", "Spectre: {Attacks}", "spectreattacks"},
		{"plain", "spectre attacks", "spectreattacks"},
		{"digits kept", "Rowhammer 2.0", "rowhammer20"},
		{"latex escapes", `$\{$AMD$\}$ Zen`, "amdzen"},
		{"unicode letters", "Über Straße", "überstraße"},
		{"only punctuation", "{}: --", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fingerprint(tt.title); got != tt.want {
				t.Errorf("Fingerprint(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestFoldedFingerprint(t *testing.T) {
	if got, want := FoldedFingerprint("Schrödinger's Café"), "schrodingerscafe"; got != want {
		t.Errorf("FoldedFingerprint() = %q, want %q", got, want)
	}
	if Fingerprint("Café") == Fingerprint("Cafe") {
		t.Error("plain Fingerprint should keep accents")
	}
}

func TestIndex_FirstSeenWins(t *testing.T) {
	idx := NewIndex(false)
	a := &reference.Entry{Key: "keyA"}
	c := &reference.Entry{Key: "keyC"}

	if _, dup := idx.Check(a, "Spectre: {Attacks}"); dup {
		t.Fatal("first entry should not be a duplicate")
	}

	d, dup := idx.Check(c, "spectre attacks")
	if !dup {
		t.Fatal("second entry should be a duplicate")
	}
	if d.Key != "keyC" || d.OriginalKey != "keyA" {
		t.Errorf("Duplicate = %+v, want keyC duplicate of keyA", d)
	}
	if d.OriginalTitle != "Spectre: {Attacks}" {
		t.Errorf("OriginalTitle = %q", d.OriginalTitle)
	}

	// A third collision still reports the first-seen entry.
	d, _ = idx.Check(&reference.Entry{Key: "keyD"}, "SPECTRE ATTACKS!")
	if d.OriginalKey != "keyA" {
		t.Errorf("OriginalKey = %q, want keyA", d.OriginalKey)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}

func TestIndex_EmptyTitleNotIndexed(t *testing.T) {
	idx := NewIndex(false)
	idx.Check(&reference.Entry{Key: "a"}, "{}")
	if _, dup := idx.Check(&reference.Entry{Key: "b"}, "--"); dup {
		t.Error("titles without word characters should never collide")
	}
}

func TestIndex_FoldAccents(t *testing.T) {
	idx := NewIndex(true)
	idx.Check(&reference.Entry{Key: "a"}, "Café Attacks")
	if _, dup := idx.Check(&reference.Entry{Key: "b"}, "Cafe attacks"); !dup {
		t.Error("accent-folded titles should collide")
	}
}
