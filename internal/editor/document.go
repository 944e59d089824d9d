// Package editor models the editable document as a tree of HTML blocks.
// It only reads the tree and tags blocks with identifiers; producing and
// mutating the markup is the editing surface's business.
package editor

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// IDAttr is the attribute that carries a block's stable identifier.
const IDAttr = "data-argus-id"

// Kind is the structural role of a block.
type Kind int

const (
	KindOther Kind = iota
	KindTitle
	KindParagraph
	KindContainer
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindParagraph:
		return "paragraph"
	case KindContainer:
		return "container"
	}
	return "other"
}

// KindOf maps an element tag to its block kind.
func KindOf(tag string) Kind {
	switch strings.ToLower(tag) {
	case "h1":
		return KindTitle
	case "p", "div", "li", "h2", "h3":
		return KindParagraph
	case "blockquote":
		return KindContainer
	}
	return KindOther
}

// Block is one element of the document tree.
type Block struct {
	node *html.Node
}

// Node returns the underlying HTML node.
func (b Block) Node() *html.Node { return b.node }

// Tag returns the lower-case element name.
func (b Block) Tag() string {
	if b.node == nil {
		return ""
	}
	return b.node.Data
}

func (b Block) Kind() Kind {
	if b.node == nil || b.node.Type != html.ElementNode {
		return KindOther
	}
	return KindOf(b.node.Data)
}

// Text returns the trimmed text content of the block and its descendants.
func (b Block) Text() string {
	if b.node == nil {
		return ""
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(b.node).Text())
}

// Markup returns the block's inner HTML, serialized like a browser's
// innerHTML: text escapes only &, < and >, so quotes and apostrophes stay
// literal.
func (b Block) Markup() string {
	if b.node == nil {
		return ""
	}
	var sb strings.Builder
	for c := b.node.FirstChild; c != nil; c = c.NextSibling {
		if err := writeMarkup(&sb, c); err != nil {
			return sb.String()
		}
	}
	return sb.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")

	voidElements = map[string]bool{
		"area": true, "base": true, "br": true, "col": true, "embed": true,
		"hr": true, "img": true, "input": true, "link": true, "meta": true,
		"source": true, "track": true, "wbr": true,
	}
	rawTextElements = map[string]bool{"script": true, "style": true}
)

func writeMarkup(sb *strings.Builder, n *html.Node) error {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && rawTextElements[n.Parent.Data] {
			sb.WriteString(n.Data)
		} else {
			textEscaper.WriteString(sb, n.Data)
		}
		return nil
	case html.ElementNode:
		sb.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			sb.WriteString(" " + key + `="`)
			attrEscaper.WriteString(sb, a.Val)
			sb.WriteString(`"`)
		}
		sb.WriteString(">")
		if voidElements[n.Data] {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeMarkup(sb, c); err != nil {
				return err
			}
		}
		sb.WriteString("</" + n.Data + ">")
		return nil
	default:
		return html.Render(sb, n)
	}
}

// ID returns the identifier assigned during the last parse pass.
func (b Block) ID() string {
	if b.node == nil {
		return ""
	}
	for _, a := range b.node.Attr {
		if a.Key == IDAttr {
			return a.Val
		}
	}
	return ""
}

// SetID writes the identifier onto the block, replacing any previous one.
func (b Block) SetID(id string) {
	if b.node == nil {
		return
	}
	for i, a := range b.node.Attr {
		if a.Key == IDAttr {
			b.node.Attr[i].Val = id
			return
		}
	}
	b.node.Attr = append(b.node.Attr, html.Attribute{Key: IDAttr, Val: id})
}

// Children returns the element children in document order.
func (b Block) Children() []Block {
	if b.node == nil {
		return nil
	}
	var out []Block
	for c := b.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Block{node: c})
		}
	}
	return out
}

// Document is the editable root container.
type Document struct {
	doc   *goquery.Document
	root  *html.Node
	index map[string]*html.Node
}

// Parse reads HTML markup into a Document. Fragments are accepted; the
// document root is the <body> element.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := doc.Find("body").First()
	if root.Length() == 0 {
		return nil, fmt.Errorf("parse document: no body element")
	}
	return &Document{
		doc:   doc,
		root:  root.Get(0),
		index: make(map[string]*html.Node),
	}, nil
}

// ParseString is Parse over a string.
func ParseString(markup string) (*Document, error) {
	return Parse(strings.NewReader(markup))
}

// Empty returns a document with no blocks.
func Empty() *Document {
	d, _ := ParseString("")
	return d
}

// Root returns the document root block.
func (d *Document) Root() Block {
	if d == nil {
		return Block{}
	}
	return Block{node: d.root}
}

// Blocks returns the root's element children.
func (d *Document) Blocks() []Block {
	return d.Root().Children()
}

// ResetIndex forgets every identifier registered by a previous pass and
// strips the identifier attribute from every element, so tags left on
// skipped blocks or echoed back by a client cannot survive into the pass.
func (d *Document) ResetIndex() {
	if d == nil {
		return
	}
	d.index = make(map[string]*html.Node)
	goquery.NewDocumentFromNode(d.root).Find("[" + IDAttr + "]").RemoveAttr(IDAttr)
}

// Register tags the block with id and records it in the lookup index.
func (d *Document) Register(b Block, id string) {
	if d == nil || b.node == nil {
		return
	}
	b.SetID(id)
	d.index[id] = b.node
}

// Lookup finds the block registered under id in the current pass. Ids not
// in the index are misses, whatever the tree carries.
func (d *Document) Lookup(id string) (Block, bool) {
	if d == nil || id == "" {
		return Block{}, false
	}
	n, ok := d.index[id]
	if !ok {
		return Block{}, false
	}
	if b := (Block{node: n}); b.ID() == id {
		return b, true
	}
	return Block{}, false
}

// IDs returns the identifiers currently in the index.
func (d *Document) IDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.index))
	for id := range d.index {
		ids = append(ids, id)
	}
	return ids
}

// HTML serializes the root's content, identifiers included.
func (d *Document) HTML() (string, error) {
	if d == nil {
		return "", nil
	}
	h, err := goquery.NewDocumentFromNode(d.root).Html()
	if err != nil {
		return "", fmt.Errorf("render document: %w", err)
	}
	return h, nil
}

// IsBlank reports whether the document has no visible text.
func (d *Document) IsBlank() bool {
	return d.Root().Text() == ""
}

// Path returns the element-index path from the document root to b, or nil
// if b is not inside the document.
func (d *Document) Path(b Block) []int {
	if d == nil || b.node == nil {
		return nil
	}
	var path []int
	for n := b.node; n != d.root; n = n.Parent {
		if n == nil {
			return nil
		}
		idx := 0
		for s := n.PrevSibling; s != nil; s = s.PrevSibling {
			if s.Type == html.ElementNode {
				idx++
			}
		}
		path = append(path, idx)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
