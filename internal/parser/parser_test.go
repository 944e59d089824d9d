package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, markup string) *editor.Document {
	t.Helper()
	doc, err := editor.ParseString(markup)
	require.NoError(t, err)
	return doc
}

func TestParse_TitleWithPremiseAndResponse(t *testing.T) {
	doc := mustDoc(t, `<h1>X</h1><p>+ P1</p><blockquote><p>+ R1</p></blockquote>`)
	args := Parse(doc)

	require.Len(t, args, 1)
	assert.Equal(t, "X", args[0].Title)
	assert.Equal(t, []argument.Line{
		{IndentLevel: 0, Type: argument.Premise, Content: "P1", EditorID: "editor-line-1"},
		{IndentLevel: 1, Type: argument.Response, Content: "R1", EditorID: "editor-line-2"},
	}, args[0].Lines)
}

func TestParse_ObjectionKeepsTag(t *testing.T) {
	doc := mustDoc(t, `<p>- [Objection to: Premise 1] too weak</p><p>- no brackets here</p>`)
	args := Parse(doc)

	require.Len(t, args, 1)
	assert.Equal(t, argument.UntitledTitle, args[0].Title)
	require.Len(t, args[0].Lines, 2)

	first := args[0].Lines[0]
	assert.Equal(t, argument.Objection, first.Type)
	assert.Equal(t, "[Objection to: Premise 1] too weak", first.Content)

	second := args[0].Lines[1]
	assert.Equal(t, argument.Objection, second.Type)
	assert.Equal(t, "no brackets here", second.Content)
}

func TestParse_EmptyDocument(t *testing.T) {
	assert.Empty(t, Parse(mustDoc(t, "")))
	assert.Empty(t, Parse(mustDoc(t, "<p>   </p><blockquote><p>\n</p></blockquote>")))
	assert.Empty(t, Parse(nil))
}

func TestParse_TitleOnly(t *testing.T) {
	args := Parse(mustDoc(t, `<h1>Lonely</h1>`))
	require.Len(t, args, 1)
	assert.Equal(t, "Lonely", args[0].Title)
	assert.Empty(t, args[0].Lines)
	assert.NotNil(t, args[0].Lines)
}

func TestParse_ConsecutiveTitles(t *testing.T) {
	args := Parse(mustDoc(t, `<h1>First</h1><h1>Second</h1><p>= done</p>`))
	require.Len(t, args, 2)
	assert.Equal(t, "First", args[0].Title)
	assert.Empty(t, args[0].Lines)
	assert.Equal(t, "Second", args[1].Title)
	require.Len(t, args[1].Lines, 1)
	assert.Equal(t, argument.Conclusion, args[1].Lines[0].Type)
	assert.Equal(t, "done", args[1].Lines[0].Content)
}

func TestParse_ClassificationByDepth(t *testing.T) {
	doc := mustDoc(t, `<p>plain premise</p>
<p>+ marked premise</p>
<blockquote><blockquote><p>= deep conclusion</p><p>+ deep response</p><p>unmarked deep</p></blockquote></blockquote>`)
	args := Parse(doc)
	require.Len(t, args, 1)

	want := []struct {
		indent int
		typ    argument.LineType
		text   string
	}{
		{0, argument.Premise, "plain premise"},
		{0, argument.Premise, "marked premise"},
		{2, argument.Conclusion, "deep conclusion"},
		{2, argument.Response, "deep response"},
		{2, argument.Premise, "unmarked deep"},
	}
	require.Len(t, args[0].Lines, len(want))
	for i, w := range want {
		l := args[0].Lines[i]
		assert.Equal(t, w.indent, l.IndentLevel, "line %d indent", i)
		assert.Equal(t, w.typ, l.Type, "line %d type", i)
		assert.Equal(t, w.text, l.Content, "line %d content", i)
	}
}

func TestParse_SkipsBlankBlocksWithoutIDs(t *testing.T) {
	doc := mustDoc(t, `<p>   </p><p>+ kept</p><ul><li>ignored list</li></ul><h2>sub heading</h2>`)
	args := Parse(doc)
	require.Len(t, args, 1)
	require.Len(t, args[0].Lines, 2)
	assert.Equal(t, "editor-line-0", args[0].Lines[0].EditorID)
	assert.Equal(t, "sub heading", args[0].Lines[1].Content)
	assert.Equal(t, "editor-line-1", args[0].Lines[1].EditorID)

	blank := doc.Blocks()[0]
	assert.Equal(t, "", blank.ID())
}

func TestParse_InlineMarkupPassesThrough(t *testing.T) {
	doc := mustDoc(t, `<p>+ for <span class="highlight-symbol">∀</span> workers and <span class="highlight-variable">D</span></p>`)
	args := Parse(doc)
	require.Len(t, args, 1)
	assert.Equal(t,
		`for <span class="highlight-symbol">∀</span> workers and <span class="highlight-variable">D</span>`,
		args[0].Lines[0].Content)
}

func TestParse_NonBreakingSpaceAfterMarker(t *testing.T) {
	doc := mustDoc(t, "<p>+\u00a0spaced</p>")
	args := Parse(doc)
	require.Len(t, args, 1)
	assert.Equal(t, "spaced", args[0].Lines[0].Content)
}

func TestParse_Deterministic(t *testing.T) {
	doc := mustDoc(t, editor.StarterHTML)
	first := Parse(doc)
	second := Parse(doc)
	assert.Equal(t, first, second)

	other := Parse(mustDoc(t, editor.StarterHTML))
	assert.Equal(t, first, other)
}

func TestParse_IdentifierIntegrity(t *testing.T) {
	doc := mustDoc(t, editor.StarterHTML+`<h1>Second</h1><blockquote><div>- more</div></blockquote>`)
	args := Parse(doc)

	seen := map[string]bool{}
	for _, a := range args {
		for _, l := range a.Lines {
			require.False(t, seen[l.EditorID], "duplicate id %s", l.EditorID)
			seen[l.EditorID] = true

			b, ok := doc.Lookup(l.EditorID)
			require.True(t, ok, "id %s not found", l.EditorID)
			assert.Equal(t, l.Content, argument.StripMarker(b.Markup()))
		}
	}

	// Titles are tagged too, so ids run 0..n-1 without gaps.
	ids := doc.IDs()
	for i := range ids {
		_, ok := doc.Lookup(fmt.Sprintf("%s%d", IDPrefix, i))
		assert.True(t, ok, "missing %s%d", IDPrefix, i)
	}
}

func TestParse_PreexistingIDsAreReplaced(t *testing.T) {
	doc := mustDoc(t, `<p data-argus-id="editor-line-0"> </p><p data-argus-id="editor-line-1">b</p><p data-argus-id="editor-line-7">  </p>`)
	args := Parse(doc)

	require.Len(t, args, 1)
	require.Len(t, args[0].Lines, 1)
	assert.Equal(t, "editor-line-0", args[0].Lines[0].EditorID)

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, `data-argus-id="editor-line-0"`))
	assert.Equal(t, `<p> </p><p data-argus-id="editor-line-0">b</p><p>  </p>`, out)

	b, ok := doc.Lookup("editor-line-0")
	require.True(t, ok)
	assert.Equal(t, "b", b.Text())
	_, ok = doc.Lookup("editor-line-7")
	assert.False(t, ok)
	_, ok = doc.Lookup("editor-line-1")
	assert.False(t, ok)
}

func TestParse_ContentKeepsQuotes(t *testing.T) {
	args := Parse(mustDoc(t, `<p>+ UBI isn't "free"</p>`))
	require.Len(t, args, 1)
	require.Len(t, args[0].Lines, 1)
	assert.Equal(t, `UBI isn't "free"`, args[0].Lines[0].Content)
}

func TestParse_StarterDocument(t *testing.T) {
	args := Parse(mustDoc(t, editor.StarterHTML))
	require.Len(t, args, 1)
	a := args[0]
	assert.True(t, strings.HasPrefix(a.Title, "Argument for Universal Basic Income"))

	types := make([]argument.LineType, 0, len(a.Lines))
	indents := make([]int, 0, len(a.Lines))
	for _, l := range a.Lines {
		types = append(types, l.Type)
		indents = append(indents, l.IndentLevel)
	}
	assert.Equal(t, []argument.LineType{
		argument.Premise, argument.Premise, argument.Premise,
		argument.Conclusion, argument.Objection, argument.Response,
	}, types)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 2}, indents)
}

func TestParse_RepeatedPassesReassignIDs(t *testing.T) {
	doc := mustDoc(t, `<p>a</p><p>b</p>`)
	Parse(doc)
	assert.Equal(t, "editor-line-1", doc.Blocks()[1].ID())

	// A block is blanked: the next pass renumbers from zero.
	doc2 := mustDoc(t, `<p> </p><p>b</p>`)
	args := Parse(doc2)
	require.Len(t, args[0].Lines, 1)
	assert.Equal(t, "editor-line-0", args[0].Lines[0].EditorID)
}
