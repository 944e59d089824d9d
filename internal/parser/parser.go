// Package parser derives the argument model from an editable document.
package parser

import (
	"fmt"

	"github.com/dgallion1/argus/internal/argument"
	"github.com/dgallion1/argus/internal/editor"
)

// IDPrefix is the prefix of the identifiers assigned to visited blocks.
const IDPrefix = "editor-line-"

// Parse walks the document once and returns its arguments in document
// order. Every visited block with text is tagged with a fresh identifier;
// the counter restarts at zero on each call.
func Parse(doc *editor.Document) []argument.Argument {
	if doc == nil {
		return nil
	}
	doc.ResetIndex()

	p := &pass{doc: doc}
	p.visit(doc.Blocks(), 0)
	if p.current != nil {
		p.result = append(p.result, *p.current)
	}
	return p.result
}

type pass struct {
	doc     *editor.Document
	counter int
	current *argument.Argument
	result  []argument.Argument
}

// visit processes container children in place; depth counts the containers
// between the blocks and the document root.
func (p *pass) visit(blocks []editor.Block, depth int) {
	for _, b := range blocks {
		switch b.Kind() {
		case editor.KindContainer:
			p.visit(b.Children(), depth+1)
		case editor.KindTitle, editor.KindParagraph:
			p.leaf(b, depth)
		}
	}
}

func (p *pass) leaf(b editor.Block, depth int) {
	text := b.Text()
	if text == "" {
		return
	}

	id := fmt.Sprintf("%s%d", IDPrefix, p.counter)
	p.counter++
	p.doc.Register(b, id)

	if b.Kind() == editor.KindTitle {
		if p.current != nil {
			p.result = append(p.result, *p.current)
		}
		p.current = &argument.Argument{Title: text, Lines: []argument.Line{}}
		return
	}

	if p.current == nil {
		p.current = &argument.Argument{Title: argument.UntitledTitle, Lines: []argument.Line{}}
	}

	p.current.Lines = append(p.current.Lines, argument.Line{
		IndentLevel: depth,
		Type:        argument.Classify(argument.LeadingMarker(text), depth),
		Content:     argument.StripMarker(b.Markup()),
		EditorID:    id,
	})
}
