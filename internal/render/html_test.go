package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_Placeholder(t *testing.T) {
	out, err := HTML(Build(nil))
	require.NoError(t, err)
	assert.Equal(t, `<div class="placeholder">`+PlaceholderText+`</div>`, out)
}

func TestHTML_CardWithLines(t *testing.T) {
	nodes := Build([]argument.Argument{{Title: "Tax <reform>", Lines: []argument.Line{
		line(0, argument.Premise, `costs <b>fall</b>`, "editor-line-1"),
		line(1, argument.Objection, "[Objection to: Premise 1] too weak", "editor-line-2"),
		line(2, argument.Response, "no", "editor-line-3"),
		line(0, argument.Conclusion, "so", "editor-line-4"),
	}}})
	out, err := HTML(nodes)
	require.NoError(t, err)

	want := `<div class="argument-card"><h2 class="argument-title">Tax &lt;reform&gt;</h2>` +
		`<div class="statement premise" data-editor-id="editor-line-1">costs <b>fall</b></div>` +
		`<div class="thread-container">` +
		`<div class="objection-item" data-editor-id="editor-line-2"><span class="objection-target">Objection to Premise 1:</span> too weak</div>` +
		`<div class="response-item" data-editor-id="editor-line-3">no</div>` +
		`</div>` +
		`<div class="statement conclusion" data-editor-id="editor-line-4">so</div>` +
		`</div>`
	assert.Equal(t, want, out)
}

func TestHTML_UnmatchedObjectionVerbatim(t *testing.T) {
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Objection, "no brackets here", "editor-line-1"),
	}}})
	out, err := HTML(nodes)
	require.NoError(t, err)
	assert.Contains(t, out, `<div class="objection-item" data-editor-id="editor-line-1">no brackets here</div>`)
	assert.NotContains(t, out, "objection-target")
}

func TestHTML_SymbolSpansPassThrough(t *testing.T) {
	content := `for <span class="highlight-symbol">∀</span> workers`
	nodes := Build([]argument.Argument{{Title: "T", Lines: []argument.Line{
		line(0, argument.Premise, content, "editor-line-1"),
	}}})
	out, err := HTML(nodes)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, content), out)
}
