package argument

// LineType is the semantic role of a line within an argument.
type LineType string

const (
	Premise    LineType = "premise"
	Conclusion LineType = "conclusion"
	Objection  LineType = "objection"
	Response   LineType = "response"
)

// UntitledTitle names the implicit argument that collects lines written
// before the first title block.
const UntitledTitle = "Untitled Argument"

// Argument is a titled, ordered group of lines.
type Argument struct {
	Title string `json:"title"`
	Lines []Line `json:"lines"`
}

// Line is one classified statement extracted from a leaf block.
type Line struct {
	IndentLevel int      `json:"indent_level"`
	Type        LineType `json:"type"`
	Content     string   `json:"content"`  // Inner markup, leading marker stripped
	EditorID    string   `json:"editor_id"` // Identifier of the originating block
}

// Stats summarizes an argument list.
type Stats struct {
	Arguments   int `json:"arguments"`
	Lines       int `json:"lines"`
	Premises    int `json:"premises"`
	Conclusions int `json:"conclusions"`
	Objections  int `json:"objections"`
	Responses   int `json:"responses"`
}

// Summarize counts arguments and lines by type.
func Summarize(args []Argument) Stats {
	s := Stats{Arguments: len(args)}
	for _, a := range args {
		for _, l := range a.Lines {
			s.Lines++
			switch l.Type {
			case Premise:
				s.Premises++
			case Conclusion:
				s.Conclusions++
			case Objection:
				s.Objections++
			case Response:
				s.Responses++
			}
		}
	}
	return s
}

// IsEmpty reports whether the list has nothing to show: no arguments, or a
// single argument without lines.
func IsEmpty(args []Argument) bool {
	return len(args) == 0 || (len(args) == 1 && len(args[0].Lines) == 0)
}
