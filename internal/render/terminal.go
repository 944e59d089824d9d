package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	placeholderStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	targetStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	badges = map[Role]lipgloss.Style{
		RolePremise:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		RoleConclusion: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		RoleObjection:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		RoleResponse:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	}
	badgeText = map[Role]string{
		RolePremise:    "+",
		RoleConclusion: "∴",
		RoleObjection:  "✗",
		RoleResponse:   "↳",
	}
)

// Terminal draws the map for a terminal of the given width. Markup is
// reduced to its text.
func Terminal(nodes []*VisualNode, width int) string {
	if IsPlaceholder(nodes) {
		return placeholderStyle.Render(nodes[0].Content)
	}
	if width < 20 {
		width = 20
	}

	cards := make([]string, 0, len(nodes))
	for _, card := range nodes {
		var lines []string
		lines = append(lines, titleStyle.Render(card.Title))
		for _, c := range card.Children {
			lines = append(lines, terminalLines(c, 0)...)
		}
		// The border and padding take four columns.
		cards = append(cards, cardStyle.Width(width-4).Render(strings.Join(lines, "\n")))
	}
	return strings.Join(cards, "\n")
}

func terminalLines(n *VisualNode, depth int) []string {
	if n.Role == RoleThread {
		var out []string
		for _, c := range n.Children {
			d := depth
			if c.Role != RoleObjection {
				d = depth + 1
			}
			out = append(out, terminalLines(c, d)...)
		}
		return out
	}

	prefix := strings.Repeat("  ", depth) + badges[n.Role].Render(badgeText[n.Role]) + " "
	var body string
	if n.Role == RoleObjection && n.Matched {
		body = targetStyle.Render("Objection to "+PlainText(n.Target)+":") + " " + PlainText(n.Body)
	} else {
		body = PlainText(n.Content)
	}
	return []string{prefix + body}
}

// PlainText returns the text of an HTML fragment.
func PlainText(markup string) string {
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return markup
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.TrimSpace(sb.String())
}
