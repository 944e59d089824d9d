// Package render turns an argument list into a navigable map.
package render

import "github.com/dgallion1/argus/internal/argument"

// Role is the visual role of a node.
type Role string

const (
	RoleCard        Role = "card"
	RoleThread      Role = "thread"
	RolePremise     Role = "premise"
	RoleConclusion  Role = "conclusion"
	RoleObjection   Role = "objection"
	RoleResponse    Role = "response"
	RolePlaceholder Role = "placeholder"
)

// PlaceholderText is shown when there is nothing to map.
const PlaceholderText = "Start writing in the editor to see your argument map."

// VisualNode is one node of the map. Line nodes carry the identifier of the
// block they came from; cards, threads and the placeholder do not.
type VisualNode struct {
	Role     Role          `json:"role"`
	Title    string        `json:"title,omitempty"`
	Content  string        `json:"content,omitempty"`
	Target   string        `json:"target,omitempty"`
	Body     string        `json:"body,omitempty"`
	Matched  bool          `json:"matched,omitempty"` // objection split into target and body
	EditorID string        `json:"editor_id,omitempty"`
	Indent   int           `json:"indent"`
	Children []*VisualNode `json:"children,omitempty"`
}

func (n *VisualNode) append(child *VisualNode) {
	n.Children = append(n.Children, child)
}

// Build converts arguments into the map tree. An empty list, or a single
// argument without lines, yields a lone placeholder.
func Build(args []argument.Argument) []*VisualNode {
	if argument.IsEmpty(args) {
		return []*VisualNode{{Role: RolePlaceholder, Content: PlaceholderText}}
	}

	cards := make([]*VisualNode, 0, len(args))
	for _, a := range args {
		card := &VisualNode{Role: RoleCard, Title: a.Title}
		stack := []*VisualNode{card}

		for _, line := range a.Lines {
			for line.IndentLevel <= len(stack)-1 && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1]

			if line.Type == argument.Objection {
				thread := &VisualNode{Role: RoleThread, Indent: line.IndentLevel}
				thread.append(objectionNode(line))
				parent.append(thread)
				stack = append(stack, thread)
				continue
			}

			parent.append(&VisualNode{
				Role:     roleFor(line.Type),
				Content:  line.Content,
				EditorID: line.EditorID,
				Indent:   line.IndentLevel,
			})
		}
		cards = append(cards, card)
	}
	return cards
}

func objectionNode(line argument.Line) *VisualNode {
	n := &VisualNode{
		Role:     RoleObjection,
		Content:  line.Content,
		EditorID: line.EditorID,
		Indent:   line.IndentLevel,
	}
	if o, ok := argument.ExtractObjection(line.Content); ok {
		n.Matched = true
		n.Target = o.Target
		n.Body = o.Body
	}
	return n
}

func roleFor(t argument.LineType) Role {
	switch t {
	case argument.Conclusion:
		return RoleConclusion
	case argument.Response:
		return RoleResponse
	case argument.Objection:
		return RoleObjection
	}
	return RolePremise
}

// IsPlaceholder reports whether nodes is the empty-map placeholder.
func IsPlaceholder(nodes []*VisualNode) bool {
	return len(nodes) == 1 && nodes[0].Role == RolePlaceholder
}

// Walk visits every node depth-first, parents before children.
func Walk(nodes []*VisualNode, fn func(n, parent *VisualNode)) {
	var visit func(n, parent *VisualNode)
	visit = func(n, parent *VisualNode) {
		fn(n, parent)
		for _, c := range n.Children {
			visit(c, n)
		}
	}
	for _, n := range nodes {
		visit(n, nil)
	}
}
