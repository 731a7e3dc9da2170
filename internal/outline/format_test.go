package outline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReformat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "whitespace only",
			in:   "  \n\t\n   ",
			want: "",
		},
		{
			name: "numbered outline",
			in:   "1. Introduction\n1.1 Overview\n1.2 Purpose\n2. Scope\n2.1 Project goals",
			want: "**1. Introduction**\n\n1.1 Overview\n\n1.2 Purpose\n\n**2. Scope**\n\n2.1 Project goals",
		},
		{
			name: "title then heading",
			in:   "Title Line\n1. First",
			want: "**Title Line**\n\n**1. First**",
		},
		{
			name: "no-break space after number",
			in:   "Title\n1.\u00a0Scope",
			want: "**Title**\n\n**1. Scope**",
		},
		{
			name: "unicode separators in outline",
			in:   "Title\n1.\u00a0Scope\n1.1 Overview\n2.\u2003\ufeffNext",
			want: "**Title**\n\n**1. Scope**\n\n1.1 Overview\n\n**2. Next**",
		},
		{
			name: "consecutive main headings",
			in:   "1. A\n2. B",
			want: "**1. A**\n**2. B**",
		},
		{
			name: "heading after blank line",
			in:   "1. A\n\n2. B",
			want: "**1. A**\n\n**2. B**",
		},
		{
			name: "prose after title",
			in:   "Title\nSome text\nMore text",
			want: "**Title**\n\nSome text\n\nMore text",
		},
		{
			name: "unclassified numbering passes through",
			in:   "Title\n3.Foo\n4. Bar",
			want: "**Title**\n3.Foo\n**4. Bar**",
		},
		{
			name: "heading spacing collapsed",
			in:   "1.   Spaced   title",
			want: "**1. Spaced   title**",
		},
		{
			name: "whitespace line kept",
			in:   "Title\n   \nText",
			want: "**Title**\n   \n\nText",
		},
		{
			name: "crlf input",
			in:   "Title\r\n1. First\r\n",
			want: "**Title**\n\n**1. First**\n",
		},
		{
			name: "leading blank line",
			in:   "\n1. First",
			want: "\n**1. First**",
		},
		{
			name: "email linked before classification",
			in:   "Title\ncontact me at a@b.com",
			want: "**Title**\n\ncontact me at [a@b.com](mailto:a@b.com)",
		},
		{
			name: "link inside main heading",
			in:   "1. Visit example.com",
			want: "**1. Visit [example.com](http://example.com)**",
		},
		{
			name: "link inside title",
			in:   "visit example.com today",
			want: "**visit [example.com](http://example.com) today**",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Reformat(tc.in)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Reformat(%q) mismatch (-want +got):\n%s", tc.in, diff)
			}
		})
	}
}

func TestReformat_BlankOnlyInputIsStable(t *testing.T) {
	for _, in := range []string{"", "\n", "\n\n\n", " \n \n"} {
		once := Reformat(in)
		if twice := Reformat(once); twice != once {
			t.Errorf("input %q: expected %q on second run, got %q", in, once, twice)
		}
	}
}

// Linkification runs before classification, so a link can change which
// numbering pattern a line matches. These cases pin the current behavior.
func TestReformat_LinkifiedTextDrivesClassification(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "numbered domain becomes prose",
			in:   "Title\n1.example.com\n2. Next",
			want: "**Title**\n\n[1.example.com](http://1.example.com)\n**2. Next**",
		},
		{
			name: "sub-heading broken by link",
			in:   "Title\n2.5.co.uk pricing",
			want: "**Title**\n2.[5.co.uk](http://5.co.uk) pricing",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Reformat(tc.in)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		line Line
		want string
	}{
		{Line{Kind: KindTitle, Text: "Doc"}, "**Doc**"},
		{Line{Kind: KindMainHeading, Number: "3", Title: "Risks"}, "**3. Risks**"},
		{Line{Kind: KindMainHeading, Number: "3", Title: "Risks", BreakBefore: true}, "\n**3. Risks**"},
		{Line{Kind: KindSubHeading, Text: "3.1 Cost", BreakBefore: true}, "\n3.1 Cost"},
		{Line{Kind: KindProse, Text: "words"}, "words"},
		{Line{Kind: KindBlank, Text: "  "}, "  "},
	}
	for _, tc := range tests {
		if got := Format(tc.line); got != tc.want {
			t.Errorf("Format(%+v): expected %q, got %q", tc.line, tc.want, got)
		}
	}
}
