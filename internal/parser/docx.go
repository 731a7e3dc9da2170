package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Each non-empty paragraph becomes a line.
// Paragraphs in a Word numbered list get their number back: "1. " at the
// top level and "1.1 " for nested levels, so they read as headings.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	nums, err := readListNumbering(data)
	if err != nil {
		return "", fmt.Errorf("read numbering: %w", err)
	}

	var blocks []string
	idx := 0
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if label := nums.next(idx); label != "" && text != "" {
			text = label + text
		}
		blocks = append(blocks, text)
		idx++
	}
	return joinBlocks(blocks), nil
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlDocument struct {
	Paras []struct {
		NumPr *struct {
			Ilvl  xmlVal `xml:"ilvl"`
			NumID xmlVal `xml:"numId"`
		} `xml:"pPr>numPr"`
	} `xml:"body>p"`
}

type xmlNumbering struct {
	Abstract []struct {
		ID     string `xml:"abstractNumId,attr"`
		Levels []struct {
			Ilvl   string `xml:"ilvl,attr"`
			Start  xmlVal `xml:"start"`
			NumFmt xmlVal `xml:"numFmt"`
		} `xml:"lvl"`
	} `xml:"abstractNum"`
	Nums []struct {
		ID         string `xml:"numId,attr"`
		AbstractID xmlVal `xml:"abstractNumId"`
	} `xml:"num"`
}

type listLevel struct {
	start    int
	numbered bool
}

// paraNum is the list membership of one body paragraph.
type paraNum struct {
	numID string
	level int
}

// listNumbering replays Word list counters over body paragraphs.
type listNumbering struct {
	paras    []*paraNum
	levels   map[string]map[int]listLevel // numId -> ilvl -> level
	counters map[string][]int
}

// readListNumbering reads paragraph list membership from word/document.xml
// and level formats from word/numbering.xml. A document without either
// file yields no numbering.
func readListNumbering(data []byte) (*listNumbering, error) {
	ln := &listNumbering{
		levels:   make(map[string]map[int]listLevel),
		counters: make(map[string][]int),
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var doc xmlDocument
	if ok, err := unmarshalZipFile(zr, "word/document.xml", &doc); err != nil || !ok {
		return ln, err
	}
	for _, p := range doc.Paras {
		if p.NumPr == nil || p.NumPr.NumID.Val == "" || p.NumPr.NumID.Val == "0" {
			ln.paras = append(ln.paras, nil)
			continue
		}
		lvl, _ := strconv.Atoi(p.NumPr.Ilvl.Val)
		ln.paras = append(ln.paras, &paraNum{numID: p.NumPr.NumID.Val, level: lvl})
	}

	var numbering xmlNumbering
	if _, err := unmarshalZipFile(zr, "word/numbering.xml", &numbering); err != nil {
		return nil, err
	}
	abstract := make(map[string]map[int]listLevel)
	for _, a := range numbering.Abstract {
		levels := make(map[int]listLevel)
		for _, l := range a.Levels {
			ilvl, _ := strconv.Atoi(l.Ilvl)
			start, err := strconv.Atoi(l.Start.Val)
			if err != nil {
				start = 1
			}
			levels[ilvl] = listLevel{
				start:    start,
				numbered: l.NumFmt.Val != "bullet" && l.NumFmt.Val != "none",
			}
		}
		abstract[a.ID] = levels
	}
	for _, n := range numbering.Nums {
		ln.levels[n.ID] = abstract[n.AbstractID.Val]
	}
	return ln, nil
}

// next returns the number label for the paragraph at idx, or "" when it is
// not in a numbered list. Labels must be requested in paragraph order.
func (ln *listNumbering) next(idx int) string {
	if idx >= len(ln.paras) || ln.paras[idx] == nil {
		return ""
	}
	p := ln.paras[idx]
	if !ln.level(p.numID, p.level).numbered {
		return ""
	}

	counts := ln.counters[p.numID]
	for len(counts) <= p.level {
		counts = append(counts, 0)
	}
	counts[p.level]++
	for i := p.level + 1; i < len(counts); i++ {
		counts[i] = 0
	}
	ln.counters[p.numID] = counts

	parts := make([]string, p.level+1)
	for i := range parts {
		parts[i] = strconv.Itoa(ln.level(p.numID, i).start + max(counts[i], 1) - 1)
	}
	if p.level == 0 {
		return parts[0] + ". "
	}
	return strings.Join(parts, ".") + " "
}

// level returns the definition of one list level. Without one, Word falls
// back to plain decimals starting at 1.
func (ln *listNumbering) level(numID string, ilvl int) listLevel {
	if l, ok := ln.levels[numID][ilvl]; ok {
		return l
	}
	return listLevel{start: 1, numbered: true}
}

func unmarshalZipFile(zr *zip.Reader, name string, v any) (bool, error) {
	f, err := zr.Open(name)
	if err != nil {
		return false, nil
	}
	defer f.Close()
	if err := xml.NewDecoder(f).Decode(v); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}
