package parser

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (string, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "outlinemd-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var blocks []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\f", "\n"), "\n") {
		blocks = append(blocks, strings.TrimSpace(l))
	}
	return joinBlocks(blocks), nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			buf.WriteString(joinRow(row.Content))
			buf.WriteByte('\n')
		}
		buf.WriteString("\f") // Form feed as page separator.
	}
	return buf.String(), nil
}

// joinRow joins the text fragments of one row. Fragments are often single
// glyphs, so a space is only added where the gap after the previous
// fragment is wider than a fraction of its font size.
func joinRow(frags []pdflib.Text) string {
	var buf strings.Builder
	for i, f := range frags {
		if i > 0 && needsSpace(frags[i-1], f) {
			buf.WriteByte(' ')
		}
		buf.WriteString(f.S)
	}
	return buf.String()
}

func needsSpace(prev, next pdflib.Text) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(next.S, " ") {
		return false
	}
	size := prev.FontSize
	if size <= 0 {
		size = 1
	}
	gap := next.X - (prev.X + prev.W)
	if prev.W <= 0 {
		// Unknown glyph width: only a full em counts as a break.
		return next.X-prev.X > size
	}
	return gap > 0.2*size
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
