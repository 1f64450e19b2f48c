package bibtex

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/bibtidy/internal/reference"
)

const sampleBib = `% Exported library
@string{sp = "IEEE S&P"}

@inproceedings{Kocher2019,
  author = {Kocher, Paul and Horn, Jann},
  title = {Spectre Attacks: Exploiting Speculative Execution},
  booktitle = "2019 IEEE Symposium on Security and Privacy (SP)",
  year = 2019,
  month = may # "~1",
}

@comment{ignored by bibtex}

@misc(Web2020,
  howpublished = {\url{http://example.org}},
  note = {Accessed {2020}}
)
`

func TestParse_Blocks(t *testing.T) {
	lib := Parse(sampleBib)
	if err := lib.Err(); err != nil {
		t.Fatalf("Parse() failures: %v", err)
	}

	kinds := []BlockKind{TextBlock, StringBlock, EntryBlock, CommentBlock, EntryBlock}
	if len(lib.Blocks) != len(kinds) {
		t.Fatalf("Parse() returned %d blocks, want %d: %+v", len(lib.Blocks), len(kinds), lib.Blocks)
	}
	for i, k := range kinds {
		if lib.Blocks[i].Kind != k {
			t.Errorf("Blocks[%d].Kind = %v, want %v", i, lib.Blocks[i].Kind, k)
		}
	}
	if lib.Count(EntryBlock) != 2 {
		t.Errorf("Count(EntryBlock) = %d, want 2", lib.Count(EntryBlock))
	}
	if lib.Blocks[2].Line != 4 {
		t.Errorf("entry line = %d, want 4", lib.Blocks[2].Line)
	}
}

func TestParse_EntryFields(t *testing.T) {
	lib := Parse(sampleBib)
	entries := lib.Entries()

	e := entries[0]
	if e.Key != "Kocher2019" || e.Type != "inproceedings" {
		t.Fatalf("entry = %s/%s", e.Type, e.Key)
	}

	want := []reference.Field{
		{Name: "author", Value: "Kocher, Paul and Horn, Jann"},
		{Name: "title", Value: "Spectre Attacks: Exploiting Speculative Execution"},
		{Name: "booktitle", Value: "2019 IEEE Symposium on Security and Privacy (SP)"},
		{Name: "year", Value: "2019", Bare: true},
		{Name: "month", Value: `may # "~1"`, Bare: true},
	}
	if len(e.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d: %+v", len(e.Fields), len(want), e.Fields)
	}
	for i, f := range want {
		if e.Fields[i] != f {
			t.Errorf("Fields[%d] = %+v, want %+v", i, e.Fields[i], f)
		}
	}

	misc := entries[1]
	if v, _ := misc.Get("howpublished"); v != `\url{http://example.org}` {
		t.Errorf("howpublished = %q", v)
	}
	if v, _ := misc.Get("note"); v != "Accessed {2020}" {
		t.Errorf("note = %q", v)
	}
}

func TestParse_Failures(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind FailureKind
	}{
		{"duplicate key", "@article{a, title={x}}\n@article{a, title={y}}\n", DuplicateKey},
		{"duplicate field", "@article{a, title={x}, Title={y}}\n", DuplicateField},
		{"missing equals", "@article{a, title {x}}\n", Syntax},
		{"unterminated", "@article{a, title={x}\n", Syntax},
		{"bad key", "@article{a b, title={x}}\n", Syntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := Parse(tt.src)
			if len(lib.Failed) != 1 {
				t.Fatalf("expected 1 failure, got %+v", lib.Failed)
			}
			if lib.Failed[0].Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", lib.Failed[0].Kind, tt.kind)
			}
			if !errors.Is(lib.Err(), ErrParse) {
				t.Errorf("Err() should wrap ErrParse, got %v", lib.Err())
			}
		})
	}
}

func TestParse_RecoversAfterUnterminated(t *testing.T) {
	lib := Parse("@article{a, title={x}\n@article{b, title={y}}\n")
	entries := lib.Entries()
	if len(entries) != 1 || entries[0].Key != "b" {
		t.Errorf("expected entry b after resync, got %+v", entries)
	}
}

func TestParse_StrayAtSign(t *testing.T) {
	lib := Parse("Contact me@example.org\n@misc{a, title={x}}\n")
	if err := lib.Err(); err != nil {
		t.Fatal(err)
	}
	if lib.Blocks[0].Kind != TextBlock || lib.Blocks[0].Raw != "Contact me@example.org" {
		t.Errorf("Blocks[0] = %+v", lib.Blocks[0])
	}
}

func TestDiscardFailures(t *testing.T) {
	lib := Parse("@article{a, title={x}}\n@article{a, title={y}}\n@article{b title}\n")
	if n := lib.DiscardFailures(DuplicateKey); n != 1 {
		t.Errorf("DiscardFailures() = %d, want 1", n)
	}
	if len(lib.Failures()) != 1 || lib.Failures()[0].Kind != Syntax {
		t.Errorf("remaining failures = %+v", lib.Failures())
	}
	// The first occurrence of a duplicated key is kept.
	if v, _ := lib.Entries()[0].Get("title"); v != "x" {
		t.Errorf("kept title = %q, want x", v)
	}
}

func TestRemove(t *testing.T) {
	lib := Parse(sampleBib)
	entries := lib.Entries()
	lib.Remove(entries[0])

	left := lib.Entries()
	if len(left) != 1 || left[0].Key != "Web2020" {
		t.Errorf("Entries() after Remove = %+v", left)
	}
	if lib.Count(CommentBlock) != 1 || lib.Count(StringBlock) != 1 {
		t.Error("Remove should keep non-entry blocks")
	}
}

func TestFormatEntry(t *testing.T) {
	e := &reference.Entry{
		Key:  "Smith2026-ab",
		Type: "article",
		Fields: []reference.Field{
			{Name: "author", Value: "John Smith and Jane Doe"},
			{Name: "title", Value: "Test {LLVM} Title"},
			{Name: "year", Value: "2026", Bare: true},
		},
	}

	got := FormatEntry(e)
	want := "@article{Smith2026-ab,\n" +
		"  author = {John Smith and Jane Doe},\n" +
		"  title = {Test {LLVM} Title},\n" +
		"  year = 2026,\n" +
		"}\n"
	if got != want {
		t.Errorf("FormatEntry() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	lib := Parse(sampleBib)
	out := Format(lib)

	again := Parse(out)
	if err := again.Err(); err != nil {
		t.Fatalf("re-parse failed: %v\n%s", err, out)
	}
	if Format(again) != out {
		t.Errorf("Format is not stable:\n%s\n---\n%s", out, Format(again))
	}
	if !strings.Contains(out, `@string{sp = "IEEE S&P"}`) {
		t.Errorf("@string block lost:\n%s", out)
	}
	if !strings.HasPrefix(out, "% Exported library\n") {
		t.Errorf("leading text lost:\n%s", out)
	}
}

func TestEncodeDecode(t *testing.T) {
	data, err := Encode("Gödel", "latin1")
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 5 {
		t.Errorf("latin1 encoding should use one byte per rune, got %d bytes", len(data))
	}
	s, err := Decode(data, "latin1")
	if err != nil {
		t.Fatal(err)
	}
	if s != "Gödel" {
		t.Errorf("Decode() = %q", s)
	}

	if _, err := LookupEncoding("klingon-8"); err == nil {
		t.Error("expected error for unknown encoding")
	}
	if _, err := Encode("日本", "latin1"); err == nil {
		t.Error("expected error for unrepresentable characters")
	}
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.bib")
	if err := os.WriteFile(in, []byte(sampleBib), 0644); err != nil {
		t.Fatal(err)
	}

	lib, err := ReadFile(in, "utf-8")
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.bib")
	if err := WriteFile(out, "utf-8", Format(lib)); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Format(lib) {
		t.Error("written file differs from formatted library")
	}

	files, _ := os.ReadDir(dir)
	if len(files) != 2 {
		t.Errorf("expected only in.bib and out.bib, found %d files", len(files))
	}
}

func TestWriteFile_NoPartialOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.bib")
	if err := WriteFile(out, "latin1", "日本"); err == nil {
		t.Fatal("expected encoding error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed write should not create the output file")
	}
}

func TestWriteFiles_AllOrNothing(t *testing.T) {
	dir := t.TempDir()
	bib := filepath.Join(dir, "out.bib")
	err := WriteFiles("utf-8",
		Output{Path: bib, Content: "@misc{a,\n}\n"},
		Output{Path: filepath.Join(dir, "missing", "refs.txt"), Content: "[1] a\n"},
	)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(bib); !os.IsNotExist(err) {
		t.Error("first output must not be written when a later one fails")
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Errorf("temp files left behind: %d entries", len(files))
	}
}
