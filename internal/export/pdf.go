package export

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writePDF renders the Markdown export as a simple PDF: headings become bold
// lines and table rows become tab-free text lines. It does not attempt full
// Markdown layout.
func writePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(3)
			continue
		}
		if strings.HasPrefix(s, "#") {
			i := 0
			for i < len(s) && s[i] == '#' {
				i++
			}
			text := strings.TrimSpace(s[i:])
			if text == "" {
				continue
			}
			size := 14.0
			if i >= 2 {
				size = 11.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 7, tr(text), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			continue
		}
		if strings.HasPrefix(s, "|") {
			if isSeparatorRow(s) {
				continue
			}
			s = tableRowText(s)
		}
		pdf.MultiCell(0, 4.5, tr(s), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

func isSeparatorRow(s string) bool {
	return strings.Trim(s, "|-: ") == ""
}

// tableRowText turns "| a | b |" into "a   b".
func tableRowText(s string) string {
	s = strings.ReplaceAll(s, "\\|", "\x00")
	parts := strings.Split(strings.Trim(s, "|"), "|")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), "\x00", "|")
	}
	return strings.Join(parts, "   ")
}
