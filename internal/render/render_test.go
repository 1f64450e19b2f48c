package render

import (
	"errors"
	"testing"

	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/reference"
	"github.com/matsen/bibtidy/internal/stats"
)

func mustTemplate(t *testing.T, tmpl string) *Template {
	t.Helper()
	tpl, err := New(tmpl)
	if err != nil {
		t.Fatalf("New(%q): %v", tmpl, err)
	}
	return tpl
}

func paper() *reference.Entry {
	return &reference.Entry{Key: "kocher2019", Type: "InProceedings", Fields: []reference.Field{
		{Name: "author", Value: "Paul Kocher and Jann Horn AND\n   Anders Fogh"},
		{Name: "title", Value: "{Spectre} attacks: {Exploiting} speculative execution"},
		{Name: "booktitle", Value: `S\&P`},
		{Name: "year", Value: "2019", Bare: true},
	}}
}

func TestRender_DefaultTemplate(t *testing.T) {
	tpl := mustTemplate(t, config.DefaultTemplate)
	got := tpl.Render(paper(), 3)
	want := `[3] Paul Kocher, Jann Horn, Anders Fogh. Spectre Attacks: Exploiting Speculative Execution. S&P, 2019.`
	if got != want {
		t.Errorf("Render() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_DoesNotMutate(t *testing.T) {
	e, before := paper(), paper()
	mustTemplate(t, "{author} {title} {venue}").Render(e, 1)
	for i := range e.Fields {
		if e.Fields[i] != before.Fields[i] {
			t.Errorf("field %d changed: %+v -> %+v", i, before.Fields[i], e.Fields[i])
		}
	}
}

func TestRender_VenueFallback(t *testing.T) {
	tpl := mustTemplate(t, "{venue}")
	tests := []struct {
		name   string
		fields []reference.Field
		want   string
	}{
		{"journal", []reference.Field{{Name: "journal", Value: "journal of cryptology"}}, "Journal Of Cryptology"},
		{"booktitle first", []reference.Field{
			{Name: "journal", Value: "J"},
			{Name: "booktitle", Value: "B"},
		}, "B"},
		{"url untouched", []reference.Field{{Name: "howpublished", Value: `\url{https://example.org/a_b}`}}, "https://example.org/a_b"},
		{"none", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &reference.Entry{Key: "k", Type: "misc", Fields: tt.fields}
			if got := tpl.Render(e, 1); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_LiteralBracesAndMetadata(t *testing.T) {
	tpl := mustTemplate(t, "{{{key}}} {type} #{index}")
	if got := tpl.Render(paper(), 7); got != "{kocher2019} inproceedings #7" {
		t.Errorf("Render() = %q", got)
	}
}

func TestNew_Errors(t *testing.T) {
	for _, tmpl := range []string{"{abstract}", "{title", "title}", "{__import__('os')}"} {
		_, err := New(tmpl)
		if err == nil {
			t.Errorf("New(%q) should fail", tmpl)
			continue
		}
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("New(%q) error should wrap ErrInvalidConfig, got %v", tmpl, err)
		}
	}
}

func TestRenderAll(t *testing.T) {
	tpl := mustTemplate(t, "{index}. {key}")
	st := stats.New()
	entries := []*reference.Entry{{Key: "a"}, {Key: "b"}}
	if got := tpl.RenderAll(entries, st); got != "1. a\n2. b\n" {
		t.Errorf("RenderAll() = %q", got)
	}
	if st.Get(stats.EntriesRendered) != 2 {
		t.Errorf("entries_rendered = %d, want 2", st.Get(stats.EntriesRendered))
	}
}

func TestClean(t *testing.T) {
	tests := []struct{ in, want string }{
		{"{The} \\emph{Real}\n\t Story", "The Real Story"},
		{`\url{http://x}`, "http://x"},
		{"  plain  ", "plain"},
		{`S\&P`, "S&P"},
		{`50\% of \$10 \#1`, "50% of $10 #1"},
		{`snake\_case`, "snake_case"},
		{`\{literal\} {group}`, "{literal} group"},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct{ in, want string }{
		{"hello world", "Hello World"},
		{"élan vital", "Élan Vital"},
		{"x86-64 builds", "X86-64 Builds"},
		{"iPhone", "IPhone"},
	}
	for _, tt := range tests {
		if got := TitleCase(tt.in); got != tt.want {
			t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
