// Package preview renders reformatted outlines to HTML.
package preview

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Hard wraps keep single newlines visible, matching how the output reads
// as plain text. Raw HTML in the input is dropped.
var md = goldmark.New(
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Render converts markdown to an HTML fragment.
func Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Headings returns the text of every bold span in markdown, in document
// order. For reformatted output that is the title and the main headings.
func Headings(markdown string) []string {
	src := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(src))

	var out []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if em, ok := n.(*ast.Emphasis); ok && em.Level == 2 {
			out = append(out, plainText(em, src))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}

func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			continue
		}
		buf.WriteString(plainText(c, src))
	}
	return buf.String()
}
