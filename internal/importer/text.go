package importer

import (
	"bufio"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/argus/internal/editor"
)

// TextImporter handles plain-text outlines. Each non-blank line becomes one
// block: "# " opens an argument, "## " and "### " are sub headings, and
// nesting comes from leading ">" characters or, failing that, from
// indentation (one level per tab or two spaces).
type TextImporter struct{}

func (p *TextImporter) Import(r io.Reader, filename string) (*editor.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return editor.ParseString(OutlineMarkup(lines))
}

// OutlineMarkup converts outline text lines to editor markup.
func OutlineMarkup(lines []string) string {
	var sb strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth, rest := lineDepth(line)
		tag, text := headingTag(rest)
		if text == "" {
			continue
		}

		for range depth {
			sb.WriteString("<blockquote>")
		}
		sb.WriteString("<" + tag + ">")
		sb.WriteString(html.EscapeString(text))
		sb.WriteString("</" + tag + ">")
		for range depth {
			sb.WriteString("</blockquote>")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func lineDepth(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, ">") {
		depth := 0
		for strings.HasPrefix(trimmed, ">") {
			depth++
			trimmed = strings.TrimLeft(trimmed[1:], " \t")
		}
		return depth, strings.TrimSpace(trimmed)
	}

	depth, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			depth++
			continue
		case ' ':
			spaces++
			if spaces == 2 {
				depth++
				spaces = 0
			}
			continue
		}
		break
	}
	return depth, strings.TrimSpace(line)
}

func headingTag(text string) (string, string) {
	switch {
	case strings.HasPrefix(text, "### "):
		return "h3", strings.TrimSpace(text[4:])
	case strings.HasPrefix(text, "## "):
		return "h2", strings.TrimSpace(text[3:])
	case strings.HasPrefix(text, "# "):
		return "h1", strings.TrimSpace(text[2:])
	}
	return "p", text
}
