package outline

import (
	"regexp"
	"strings"
)

// Kind identifies how a line is rendered.
type Kind int

const (
	// KindBlank covers blank lines and anything no other kind claims,
	// such as "3.Foo". These pass through unchanged.
	KindBlank Kind = iota
	KindTitle
	KindMainHeading
	KindSubHeading
	KindProse
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindMainHeading:
		return "main_heading"
	case KindSubHeading:
		return "sub_heading"
	case KindProse:
		return "prose"
	default:
		return "blank"
	}
}

// The separator after "N." also accepts no-break and other Unicode spaces,
// which pasted text often carries.
var (
	mainHeadingRe = regexp.MustCompile(`^(\d+)\.[\s\p{Zs}\x{FEFF}]+(.+)$`)
	subHeadingRe  = regexp.MustCompile(`^\d+\.\d+`)
	numberedRe    = regexp.MustCompile(`^\d+\.`)
)

// Line is a classified line of a document.
type Line struct {
	Index int
	Raw   string // Original text, before linkification. Set by Document.
	Text  string // Linkified text; classification runs against this.
	Kind  Kind

	// Set for KindMainHeading only.
	Number string
	Title  string

	// BreakBefore asks the formatter to emit a blank line first.
	BreakBefore bool
}

// Classify decides the kind of the line at index. text is the linkified
// line; prevRaw is the predecessor as typed by the user, and is ignored
// for index 0.
func Classify(index int, text, prevRaw string) Line {
	l := Line{Index: index, Text: text}
	blank := isBlank(text)

	if index == 0 && !blank && !mainHeadingRe.MatchString(text) {
		l.Kind = KindTitle
		return l
	}

	if m := mainHeadingRe.FindStringSubmatch(text); m != nil {
		l.Kind = KindMainHeading
		l.Number = m[1]
		l.Title = m[2]
		l.BreakBefore = index > 0 && (isSubHeading(prevRaw) || isProse(prevRaw))
		return l
	}

	switch {
	case isSubHeading(text):
		l.Kind = KindSubHeading
	case isProse(text):
		l.Kind = KindProse
	default:
		return l
	}
	l.BreakBefore = index > 0
	return l
}

// Document splits text into lines, linkifies each one and classifies it.
// Carriage returns from CRLF input are dropped.
func Document(text string) []Line {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]Line, len(raw))
	for i, r := range raw {
		prev := ""
		if i > 0 {
			prev = raw[i-1]
		}
		lines[i] = Classify(i, Linkify(r), prev)
		lines[i].Raw = r
	}
	return lines
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isSubHeading(s string) bool {
	return subHeadingRe.MatchString(s)
}

// isProse reports a non-blank line with no leading "N." numbering.
func isProse(s string) bool {
	return !isBlank(s) && !numberedRe.MatchString(s)
}
