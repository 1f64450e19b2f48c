package citation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matsen/bibtidy/internal/config"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	x, err := NewExtractor(config.DefaultCitePattern)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func TestExtractor_Keys(t *testing.T) {
	x := newExtractor(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single", `see \cite{keyA}.`, []string{"keyA"}},
		{"list with spaces", `\cite{a, b ,c}`, []string{"a", "b", "c"}},
		{"split across lines", "as shown \\cite{a,\n  b}", []string{"a", "b"}},
		{"several", `\cite{a} and \cite{b,a}`, []string{"a", "b", "a"}},
		{"empty token", `\cite{a,,b,}`, []string{"a", "b"}},
		{"other commands ignored", `\citep{a} \ref{b}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := x.Keys(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractor_CustomPattern(t *testing.T) {
	x, err := NewExtractor(`\\cite[pt]?\*?\{([^}]+)\}`)
	if err != nil {
		t.Fatal(err)
	}
	s, err := x.Extract(`\citep{a} \citet*{b} \cite{c}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestNewExtractor_Invalid(t *testing.T) {
	if _, err := NewExtractor(`\\cite{(`); err == nil {
		t.Error("expected error for malformed pattern")
	}
	if _, err := NewExtractor(`\\cite\{[^}]+\}`); err == nil {
		t.Error("expected error for pattern without capture group")
	}
}

func TestExtract_UnionAcrossSources(t *testing.T) {
	x := newExtractor(t)
	s, err := x.Extract(`\cite{a,b}`, `\cite{b,c}`)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	for _, k := range []string{"a", "b", "c"} {
		if !s.Contains(k) {
			t.Errorf("set missing %q", k)
		}
	}
	if s.Contains("d") {
		t.Error("set should not contain d")
	}
}

func TestExtractFiles(t *testing.T) {
	x := newExtractor(t)
	dir := t.TempDir()
	p1 := filepath.Join(dir, "intro.tex")
	p2 := filepath.Join(dir, "eval.tex")
	os.WriteFile(p1, []byte("Intro \\cite{keyA,\nkeyC}\n"), 0644)
	os.WriteFile(p2, []byte("Eval \\cite{keyA}\n"), 0644)

	s, err := x.ExtractFiles([]string{p1, p2})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"keyA", "keyC"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestExtractFiles_NoSources(t *testing.T) {
	s, err := newExtractor(t).ExtractFiles(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Error("expected nil set when no sources are configured")
	}
}

func TestExtractFiles_MissingSource(t *testing.T) {
	_, err := newExtractor(t).ExtractFiles([]string{filepath.Join(t.TempDir(), "missing.tex")})
	if err == nil {
		t.Error("expected error for missing source")
	}
}
