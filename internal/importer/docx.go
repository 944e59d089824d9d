package importer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/argus/internal/editor"
	"github.com/fumiama/go-docx"
)

// DOCXImporter handles .docx files. Heading 1 paragraphs open arguments,
// deeper headings become sub headings, and every other paragraph is an
// outline line whose nesting comes from leading ">" characters.
type DOCXImporter struct{}

func (p *DOCXImporter) Import(r io.Reader, filename string) (*editor.Document, error) {
	// go-docx needs a ReaderAt and a size.
	tmp, err := os.CreateTemp("", "argus-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}
		switch level := docxHeadingLevel(para); {
		case level == 1:
			lines = append(lines, "# "+text)
		case level == 2:
			lines = append(lines, "## "+text)
		case level > 2:
			lines = append(lines, "### "+text)
		default:
			lines = append(lines, text)
		}
	}
	return editor.ParseString(OutlineMarkup(lines))
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3", "4", "5", "6":
		return 3
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
