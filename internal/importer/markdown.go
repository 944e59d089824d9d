package importer

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/argus/internal/editor"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter handles Markdown outlines using goldmark. "#" headings
// open arguments, "> " quotes nest, and list items keep their bullet as the
// line marker ("+" or "-"; "*" and numbered items carry none). A list
// nested inside an item is one level deeper than the item.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (*editor.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	c := &mdConverter{md: md, src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := c.block(n, 0); err != nil {
			return nil, err
		}
	}
	return ParseMarkup(c.out.String())
}

type mdConverter struct {
	md  goldmark.Markdown
	src []byte
	out strings.Builder
}

func (c *mdConverter) block(n ast.Node, depth int) error {
	switch node := n.(type) {
	case *ast.Heading:
		tag := "p"
		switch node.Level {
		case 1:
			tag = "h1"
		case 2:
			tag = "h2"
		case 3:
			tag = "h3"
		}
		inline, err := c.inline(node)
		if err != nil {
			return err
		}
		c.emit(depth, tag, inline)

	case *ast.Paragraph, *ast.TextBlock:
		inline, err := c.inline(node)
		if err != nil {
			return err
		}
		c.emit(depth, "p", inline)

	case *ast.Blockquote:
		for ch := node.FirstChild(); ch != nil; ch = ch.NextSibling() {
			if err := c.block(ch, depth+1); err != nil {
				return err
			}
		}

	case *ast.List:
		marker := ""
		if !node.IsOrdered() && (node.Marker == '+' || node.Marker == '-') {
			marker = string(node.Marker) + " "
		}
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			if err := c.listItem(item, marker, depth); err != nil {
				return err
			}
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		c.emit(depth, "p", "<code>"+html.EscapeString(strings.TrimSpace(linesText(n, c.src)))+"</code>")

	case *ast.HTMLBlock:
		c.out.WriteString(linesText(n, c.src))

	case *ast.ThematicBreak:
	}
	return nil
}

// listItem emits the item's first text block with the list marker and
// nests everything after it one level deeper.
func (c *mdConverter) listItem(item ast.Node, marker string, depth int) error {
	first := true
	for ch := item.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch ch.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			if first {
				inline, err := c.inline(ch)
				if err != nil {
					return err
				}
				c.emit(depth, "p", html.EscapeString(marker)+inline)
				first = false
				continue
			}
		}
		if err := c.block(ch, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c *mdConverter) inline(n ast.Node) (string, error) {
	var buf bytes.Buffer
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if err := c.md.Renderer().Render(&buf, c.src, ch); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func (c *mdConverter) emit(depth int, tag, inner string) {
	if strings.TrimSpace(inner) == "" {
		return
	}
	for range depth {
		c.out.WriteString("<blockquote>")
	}
	c.out.WriteString("<" + tag + ">" + inner + "</" + tag + ">")
	for range depth {
		c.out.WriteString("</blockquote>")
	}
	c.out.WriteString("\n")
}

func linesText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
