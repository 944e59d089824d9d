package render

import (
	"testing"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/editor"
	"github.com/dgallion1/argus/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(indent int, typ argument.LineType, content, id string) argument.Line {
	return argument.Line{IndentLevel: indent, Type: typ, Content: content, EditorID: id}
}

func TestBuild_EmptyShowsPlaceholder(t *testing.T) {
	for _, args := range [][]argument.Argument{
		nil,
		{},
		{{Title: "Only title", Lines: []argument.Line{}}},
	} {
		nodes := Build(args)
		require.Len(t, nodes, 1)
		assert.Equal(t, RolePlaceholder, nodes[0].Role)
		assert.Equal(t, PlaceholderText, nodes[0].Content)
		assert.True(t, IsPlaceholder(nodes))
	}
}

func TestBuild_EmptyFirstArgumentStillGetsCard(t *testing.T) {
	nodes := Build([]argument.Argument{
		{Title: "First", Lines: []argument.Line{}},
		{Title: "Second", Lines: []argument.Line{}},
	})
	require.Len(t, nodes, 2)
	assert.Equal(t, RoleCard, nodes[0].Role)
	assert.Equal(t, "First", nodes[0].Title)
	assert.Empty(t, nodes[0].Children)
	assert.Equal(t, "Second", nodes[1].Title)
	assert.False(t, IsPlaceholder(nodes))
}

func TestBuild_ObjectionWithTarget(t *testing.T) {
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Objection, "[Objection to: Premise 1] too weak", "editor-line-1"),
	}}})
	card := nodes[0]
	require.Len(t, card.Children, 1)

	thread := card.Children[0]
	assert.Equal(t, RoleThread, thread.Role)
	require.Len(t, thread.Children, 1)

	obj := thread.Children[0]
	assert.Equal(t, RoleObjection, obj.Role)
	assert.True(t, obj.Matched)
	assert.Equal(t, "Premise 1", obj.Target)
	assert.Equal(t, "too weak", obj.Body)
	assert.Equal(t, "editor-line-1", obj.EditorID)
}

func TestBuild_ObjectionWithoutTarget(t *testing.T) {
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Objection, "no brackets here", "editor-line-0"),
	}}})
	obj := nodes[0].Children[0].Children[0]
	assert.False(t, obj.Matched)
	assert.Equal(t, "no brackets here", obj.Content)
	assert.Empty(t, obj.Target)
}

func TestBuild_ResponsesNestUnderObjectionThread(t *testing.T) {
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Premise, "P1", "a"),
		line(1, argument.Objection, "O1", "b"),
		line(2, argument.Response, "R1", "c"),
		line(2, argument.Response, "R2", "d"),
		line(1, argument.Objection, "O2", "e"),
		line(0, argument.Conclusion, "C", "f"),
	}}})
	card := nodes[0]
	require.Len(t, card.Children, 4)

	assert.Equal(t, RolePremise, card.Children[0].Role)

	t1 := card.Children[1]
	assert.Equal(t, RoleThread, t1.Role)
	require.Len(t, t1.Children, 3)
	assert.Equal(t, "O1", t1.Children[0].Content)
	assert.Equal(t, RoleResponse, t1.Children[1].Role)
	assert.Equal(t, "R1", t1.Children[1].Content)
	assert.Equal(t, "R2", t1.Children[2].Content)

	t2 := card.Children[2]
	assert.Equal(t, RoleThread, t2.Role)
	assert.Equal(t, "O2", t2.Children[0].Content)
	assert.Len(t, t2.Children, 1)

	assert.Equal(t, RoleConclusion, card.Children[3].Role)
}

func TestBuild_TopLevelObjectionThreadDepth(t *testing.T) {
	// An objection at indent 0 sits at stack depth 1: an indent-1 line pops
	// back to the card while an indent-2 line stays inside the thread.
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Objection, "O", "a"),
		line(2, argument.Response, "R", "b"),
		line(1, argument.Response, "R1", "c"),
	}}})
	card := nodes[0]
	require.Len(t, card.Children, 2)
	thread := card.Children[0]
	require.Len(t, thread.Children, 2)
	assert.Equal(t, "R", thread.Children[1].Content)
	assert.Equal(t, "R1", card.Children[1].Content)
}

func TestBuild_SkippedLevelsFollowStackRule(t *testing.T) {
	// The objection jumps to indent 3 but lands at stack depth 1; a
	// following indent-2 line is deeper than depth 1 and nests inside.
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(3, argument.Objection, "O", "a"),
		line(2, argument.Response, "R", "b"),
	}}})
	thread := nodes[0].Children[0]
	require.Len(t, thread.Children, 2)
	assert.Equal(t, "R", thread.Children[1].Content)
}

func TestBuild_EditorIDsCarriedFromLines(t *testing.T) {
	doc, err := editor.ParseString(editor.StarterHTML)
	require.NoError(t, err)
	args := parser.Parse(doc)
	nodes := Build(args)

	count := 0
	Walk(nodes, func(n, _ *VisualNode) {
		switch n.Role {
		case RoleCard, RoleThread, RolePlaceholder:
			assert.Empty(t, n.EditorID)
		default:
			count++
			b, ok := doc.Lookup(n.EditorID)
			require.True(t, ok, "node id %q has no block", n.EditorID)
			assert.Equal(t, n.Content, argument.StripMarker(b.Markup()))
		}
	})
	assert.Equal(t, 6, count)
}

func TestBuild_IndentMonotonicity(t *testing.T) {
	doc, err := editor.ParseString(`<h1>A</h1>
<p>+ P1</p>
<blockquote><p>- [Objection to: P1] weak</p>
<blockquote><p>+ answer</p><p>- counter</p><blockquote><p>+ counter answer</p></blockquote></blockquote></blockquote>
<p>= C</p>
<h1>B</h1>
<blockquote><p>+ stray response</p></blockquote>
<p>- top objection</p>
<blockquote><p>+ reply</p></blockquote>`)
	require.NoError(t, err)
	nodes := Build(parser.Parse(doc))

	Walk(nodes, func(n, parent *VisualNode) {
		if parent == nil || parent.Role == RoleCard {
			return
		}
		require.Equal(t, RoleThread, parent.Role, "only threads hold line nodes")
		if n.Role == RoleObjection && parent.Children[0] == n {
			assert.Equal(t, parent.Indent, n.Indent)
			return
		}
		assert.Less(t, parent.Indent, n.Indent, "node %q nested under thread with indent %d", n.Content, parent.Indent)
	})
}
