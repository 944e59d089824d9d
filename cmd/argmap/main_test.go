package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/glossary"
)

const outline = "# Tax reform\n+ Lower rates raise growth.\n> - [Objection to: Premise 1] Evidence is mixed.\n= So cut rates.\n"

func writeOutline(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeOutline(t, "tax.txt", outline)

	doc, args, size, err := loadFile(path)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, int64(len(outline)), size)
	require.Len(t, args, 1)
	assert.Equal(t, "Tax reform", args[0].Title)
	require.Len(t, args[0].Lines, 3)
	assert.Equal(t, argument.Objection, args[0].Lines[1].Type)
}

func TestLoadFile_Errors(t *testing.T) {
	_, _, _, err := loadFile(filepath.Join(t.TempDir(), "notes.xyz"))
	assert.ErrorContains(t, err, "unsupported file type")

	_, _, _, err = loadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestWriteArguments(t *testing.T) {
	args := []argument.Argument{
		{Title: "First", Lines: []argument.Line{
			{IndentLevel: 0, Type: argument.Premise, Content: "A &amp; B"},
			{IndentLevel: 1, Type: argument.Objection, Content: "<b>Not</b> so"},
		}},
		{Title: "Second"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeArguments(&buf, args))

	want := "First\n  [premise] A & B\n    [objection] Not so\n\nSecond\n"
	assert.Equal(t, want, buf.String())
}

func TestSummary(t *testing.T) {
	s := argument.Stats{Arguments: 1, Lines: 1200, Objections: 3}
	got := summary(s, 2048)
	assert.Equal(t, "1 argument, 1,200 lines, 3 objections, from 2.0 kB", got)
}

func TestSymbolTable(t *testing.T) {
	symbols := []glossary.Symbol{
		{Category: "Classical Logic", Symbol: "¬", Name: "Negation, Not", Meaning: "Not P"},
		{Category: "Set Theory", Symbol: "|A|", Name: "Cardinality", Meaning: "Size of A"},
		{Category: "Classical Logic", Symbol: "∧", Name: "Conjunction, And", Meaning: "Both"},
	}

	md := symbolTable(symbols)
	assert.Equal(t, 2, strings.Count(md, "## "))
	assert.Less(t, strings.Index(md, "## Classical Logic"), strings.Index(md, "## Set Theory"))
	assert.Contains(t, md, "| ¬ | Negation | Not P |  |")
	assert.Contains(t, md, `| \|A\| | Cardinality |`)
	assert.Less(t, strings.Index(md, "∧"), strings.Index(md, "## Set Theory"))
}

func TestWatchModel_KeepsLastGoodMap(t *testing.T) {
	m := newWatchModel("/tmp/tax.txt", 80, make(chan struct{}))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(watchModel)
	assert.True(t, m.ready)

	next, _ = m.Update(mapLoadedMsg{content: "MAP", stats: argument.Stats{Arguments: 1}, at: time.Now()})
	m = next.(watchModel)
	assert.Contains(t, m.View(), "MAP")
	assert.Contains(t, m.View(), "1 argument")

	next, _ = m.Update(mapLoadedMsg{err: assert.AnError, at: time.Now()})
	m = next.(watchModel)
	assert.Contains(t, m.View(), "MAP")
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestWatchModel_Quit(t *testing.T) {
	m := newWatchModel("/tmp/tax.txt", 80, make(chan struct{}))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWatchModel_ResizeReloads(t *testing.T) {
	path := writeOutline(t, "tax.txt", outline)
	m := newWatchModel(path, 80, make(chan struct{}))

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(watchModel)
	assert.Equal(t, 60, m.width)
	require.NotNil(t, cmd)

	loaded := loadMap(path, m.width)
	require.NoError(t, loaded.err)
	assert.Contains(t, loaded.content, "Tax reform")
}
