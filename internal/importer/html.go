package importer

import (
	"fmt"
	"io"

	"github.com/dgallion1/argus/internal/editor"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLImporter handles HTML files and raw editor markup.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (*editor.Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	return ParseMarkup(string(raw))
}

// ParseMarkup sanitizes untrusted editor markup and parses it.
func ParseMarkup(markup string) (*editor.Document, error) {
	doc, err := editor.ParseString(Sanitize(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

var policy = newPolicy()

// newPolicy allows the block structure the parser reads plus the inline
// formatting the editing surface produces. Scripts, styles and event
// handlers are dropped.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "div", "blockquote", "ul", "ol", "li", "br", "hr", "pre", "code",
		"b", "strong", "i", "em", "u", "s", "strike", "sub", "sup", "span", "font",
	)
	p.AllowAttrs("class").OnElements("span", "p", "div", "blockquote")
	p.AllowAttrs(editor.IDAttr).Matching(bluemonday.SpaceSeparatedTokens).Globally()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("a")
	p.RequireNoFollowOnLinks(true)
	return p
}

// Sanitize strips everything from markup except the allowed block and
// inline elements.
func Sanitize(markup string) string {
	return policy.Sanitize(markup)
}
