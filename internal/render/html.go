package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EditorIDAttr links a rendered line back to its source block.
const EditorIDAttr = "data-editor-id"

var roleClass = map[Role]string{
	RolePremise:    "statement premise",
	RoleConclusion: "statement conclusion",
	RoleResponse:   "response-item",
	RoleObjection:  "objection-item",
	RoleThread:     "thread-container",
	RoleCard:       "argument-card",
}

// WriteHTML mounts the map as HTML. Line content is spliced in as markup;
// titles and the placeholder are escaped text.
func WriteHTML(w io.Writer, nodes []*VisualNode) error {
	for _, n := range nodes {
		if err := html.Render(w, htmlNode(n)); err != nil {
			return fmt.Errorf("render map: %w", err)
		}
	}
	return nil
}

// HTML is WriteHTML into a string.
func HTML(nodes []*VisualNode) (string, error) {
	var sb strings.Builder
	if err := WriteHTML(&sb, nodes); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func htmlNode(n *VisualNode) *html.Node {
	switch n.Role {
	case RolePlaceholder:
		el := element(atom.Div, "placeholder")
		el.AppendChild(text(n.Content))
		return el

	case RoleCard:
		el := element(atom.Div, roleClass[RoleCard])
		title := element(atom.H2, "argument-title")
		title.AppendChild(text(n.Title))
		el.AppendChild(title)
		for _, c := range n.Children {
			el.AppendChild(htmlNode(c))
		}
		return el

	case RoleThread:
		el := element(atom.Div, roleClass[RoleThread])
		for _, c := range n.Children {
			el.AppendChild(htmlNode(c))
		}
		return el

	case RoleObjection:
		el := element(atom.Div, roleClass[RoleObjection])
		el.Attr = append(el.Attr, html.Attribute{Key: EditorIDAttr, Val: n.EditorID})
		if n.Matched {
			target := element(atom.Span, "objection-target")
			appendMarkup(target, "Objection to "+n.Target+":")
			el.AppendChild(target)
			el.AppendChild(text(" "))
			appendMarkup(el, n.Body)
		} else {
			appendMarkup(el, n.Content)
		}
		return el
	}

	el := element(atom.Div, roleClass[n.Role])
	el.Attr = append(el.Attr, html.Attribute{Key: EditorIDAttr, Val: n.EditorID})
	appendMarkup(el, n.Content)
	return el
}

func element(a atom.Atom, class string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = []html.Attribute{{Key: "class", Val: class}}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// appendMarkup parses markup as children of parent. Unparseable markup is
// kept as text.
func appendMarkup(parent *html.Node, markup string) {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		parent.AppendChild(text(markup))
		return
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
}
