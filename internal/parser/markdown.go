package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Ordered list items
// get their "N. " marker back so they read as main headings again. Items of
// an ordered list nested in a numbered item are labelled "N.M " and read as
// sub-headings.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var lines []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		lines = appendBlock(lines, n, src, "")
	}
	return strings.Join(lines, "\n"), nil
}

// appendBlock appends the source lines of a block node and its nested blocks.
// number is the label of the enclosing numbered list item, if any.
func appendBlock(lines []string, n ast.Node, src []byte, number string) []string {
	switch node := n.(type) {
	case *ast.List:
		return appendList(lines, node, src, number)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return lines
	}

	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		if l := strings.TrimSpace(string(seg.Value(src))); l != "" {
			lines = append(lines, l)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock {
			lines = appendBlock(lines, c, src, number)
		}
	}
	return lines
}

func appendList(lines []string, list *ast.List, src []byte, parent string) []string {
	num := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		if !list.IsOrdered() {
			lines = appendBlock(lines, item, src, parent)
			continue
		}
		label := strconv.Itoa(num)
		marker := label + ". "
		if parent != "" {
			label = parent + "." + label
			marker = label + " "
		}
		itemLines := appendBlock(nil, item, src, label)
		if len(itemLines) > 0 {
			itemLines[0] = marker + itemLines[0]
		}
		lines = append(lines, itemLines...)
		num++
	}
	return lines
}
