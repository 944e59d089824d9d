package argument

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Markers recognized at the start of a line.
const (
	MarkerResponse   = "+"
	MarkerObjection  = "-"
	MarkerConclusion = "="
)

// Classify decides a line's type from its leading marker and indent level.
func Classify(marker string, indentLevel int) LineType {
	switch marker {
	case MarkerConclusion:
		return Conclusion
	case MarkerObjection:
		return Objection
	case MarkerResponse:
		if indentLevel > 0 {
			return Response
		}
		return Premise
	}
	return Premise
}

// LeadingMarker returns the first character of the trimmed text, or "" for
// empty text.
func LeadingMarker(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(text)
	return text[:size]
}

// StripMarker trims markup and removes one leading marker and any
// whitespace that follows it.
func StripMarker(markup string) string {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return ""
	}
	switch markup[0] {
	case '+', '-', '=':
		return strings.TrimLeftFunc(markup[1:], unicode.IsSpace)
	}
	return markup
}

// ObjectionParts is the target/body split of an objection line.
type ObjectionParts struct {
	Target string `json:"target"`
	Body   string `json:"body"`
}

var objectionRe = regexp.MustCompile(`(?s)\[Objection to:[\s\p{Zs}]*(.*?)\][\s\p{Zs}]*(.*)`)

// ExtractObjection matches "[Objection to: <target>] <body>" anywhere in
// content. Content without the tag reports false.
func ExtractObjection(content string) (ObjectionParts, bool) {
	m := objectionRe.FindStringSubmatch(content)
	if m == nil {
		return ObjectionParts{}, false
	}
	return ObjectionParts{Target: m[1], Body: m[2]}, true
}
