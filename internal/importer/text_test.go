package importer

import (
	"strings"
	"testing"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/parser"
)

func TestTextImporter_Outline(t *testing.T) {
	input := "# Tax reform\n+ Lower rates raise growth.\n\n> - [Objection to: Premise 1] Evidence is mixed.\n>> + Recent studies agree.\n= So cut rates.\n"
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader(input), "tax.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	args := parser.Parse(doc)
	if len(args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(args))
	}
	if args[0].Title != "Tax reform" {
		t.Errorf("expected title %q, got %q", "Tax reform", args[0].Title)
	}

	want := []struct {
		indent int
		typ    argument.LineType
	}{
		{0, argument.Premise},
		{1, argument.Objection},
		{2, argument.Response},
		{0, argument.Conclusion},
	}
	if len(args[0].Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(args[0].Lines))
	}
	for i, w := range want {
		l := args[0].Lines[i]
		if l.IndentLevel != w.indent || l.Type != w.typ {
			t.Errorf("line %d: expected (%d, %s), got (%d, %s)", i, w.indent, w.typ, l.IndentLevel, l.Type)
		}
	}
}

func TestTextImporter_EmptyInput(t *testing.T) {
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Blocks()) != 0 {
		t.Errorf("expected 0 blocks for empty input, got %d", len(doc.Blocks()))
	}
}

func TestTextImporter_IndentationNesting(t *testing.T) {
	input := "+ top\n  + two spaces\n\t\t+ two tabs\n    - four spaces\n"
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader(input), "indent.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := parser.Parse(doc)
	if len(args) != 1 {
		t.Fatalf("expected 1 argument, got %d", len(args))
	}
	wantIndent := []int{0, 1, 2, 2}
	for i, w := range wantIndent {
		if got := args[0].Lines[i].IndentLevel; got != w {
			t.Errorf("line %d: expected indent %d, got %d", i, w, got)
		}
	}
}

func TestTextImporter_EscapesMarkup(t *testing.T) {
	p := &TextImporter{}
	doc, err := p.Import(strings.NewReader("+ a < b & <script>x</script>"), "esc.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := parser.Parse(doc)
	got := args[0].Lines[0].Content
	if got != "a &lt; b &amp; &lt;script&gt;x&lt;/script&gt;" {
		t.Errorf("expected escaped content, got %q", got)
	}
}

func TestOutlineMarkup_Headings(t *testing.T) {
	got := OutlineMarkup([]string{"# A", "## B", "### C", "#not a heading", "   "})
	want := "<h1>A</h1>\n<h2>B</h2>\n<h3>C</h3>\n<p>#not a heading</p>\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
