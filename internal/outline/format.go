package outline

import "strings"

// Format renders a classified line. Lines with BreakBefore get a leading
// newline, which shows up as a blank line once the output is joined.
func Format(l Line) string {
	var out string
	switch l.Kind {
	case KindTitle:
		return "**" + l.Text + "**"
	case KindMainHeading:
		out = "**" + l.Number + ". " + l.Title + "**"
	case KindSubHeading, KindProse:
		out = l.Text
	default:
		return l.Text
	}
	if l.BreakBefore {
		return "\n" + out
	}
	return out
}

// Reformat converts a numbered plain-text outline into markdown: the first
// line becomes a bold title, "N. Title" lines become bold headings, and
// sub-numbered or prose lines are separated by a blank line. Emails, URLs
// and domains are turned into links first.
func Reformat(text string) string {
	if isBlank(text) {
		return ""
	}
	lines := Document(text)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Format(l)
	}
	return strings.Join(out, "\n")
}
