package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"advisory-backend/document/model"
)

// A4 portrait in millimetres.
const (
	pdfPageWidth  = 210.0
	pdfPageHeight = 297.0
	pdfMargin     = 20.0
	pdfFontFamily = "Helvetica"
	pdfBlockGap   = 2.0
)

// PDFRenderer writes a paginated PDF with a manual cursor layout. Unless Full
// is set only the summary sections of a document are written.
type PDFRenderer struct {
	Full bool
}

func (PDFRenderer) Extension() string   { return "pdf" }
func (PDFRenderer) ContentType() string { return ContentTypePDF }

func (r PDFRenderer) Render(doc model.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if !r.Full {
		doc = doc.Summary()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetSubject(doc.Subject, true)
	pdf.SetCreator("Advisory Portal", true)
	if !doc.GeneratedAt.IsZero() {
		pdf.SetCreationDate(doc.GeneratedAt.UTC())
		pdf.SetModificationDate(doc.GeneratedAt.UTC())
	}

	canvas := &fpdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	layoutPDF(doc, canvas)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf layout: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfCanvas is the subset of the PDF writer the layout needs.
type pdfCanvas interface {
	AddPage()
	SetFont(family, style string, size float64)
	SplitText(text string, width float64) []string
	Text(x, y float64, text string)
}

type fpdfCanvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (c *fpdfCanvas) AddPage() { c.pdf.AddPage() }

func (c *fpdfCanvas) SetFont(family, style string, size float64) {
	c.pdf.SetFont(family, style, size)
}

// SplitText translates text to the core font code page and wraps the
// translated bytes, so widths are measured on exactly what Text draws.
// Runes outside cp1252 come out as '.'.
func (c *fpdfCanvas) SplitText(text string, width float64) []string {
	return wrapText(c.tr(text), width, c.pdf.GetStringWidth)
}

// Text draws a line returned by SplitText.
func (c *fpdfCanvas) Text(x, y float64, text string) {
	c.pdf.Text(x, y, text)
}

// wrapText breaks single-byte text into lines no wider than width, after
// the last space that fits. A word wider than the line is cut where it
// overflows. Scanning resumes at the start of each new line.
func wrapText(text string, width float64, measure func(string) float64) []string {
	text = strings.TrimRight(text, "\n")
	var lines []string
	start, space := 0, -1
	for i := 0; i < len(text); i++ {
		if text[i] == ' ' {
			space = i
		}
		if measure(text[start:i+1]) <= width {
			continue
		}
		switch {
		case space > start:
			lines = append(lines, text[start:space])
			start, i = space+1, space
		case i > start:
			lines = append(lines, text[start:i])
			start, i = i, i-1
		default:
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
		space = -1
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// pdfCursor tracks the vertical write position across pages.
type pdfCursor struct {
	canvas pdfCanvas
	y      float64
	pages  int
}

func layoutPDF(doc model.Document, canvas pdfCanvas) int {
	c := &pdfCursor{canvas: canvas}
	c.newPage()

	c.write(doc.Title, StyleMap["title"])
	if doc.Subject != "" {
		c.write(doc.Subject, StyleMap["subject"])
	}
	if doc.GeneratedLine != "" {
		c.write(doc.GeneratedLine, StyleMap["generated"])
	}
	c.gap()

	for _, section := range doc.Sections {
		c.write(section.Heading, StyleMap["sectionHeading"])
		switch section.Body {
		case model.BodyProse:
			for _, text := range section.Paragraphs {
				c.write(text, StyleMap["body"])
			}
		case model.BodyKeyValue:
			for _, pair := range section.Pairs {
				c.write(pair.Label+": "+pair.Value, StyleMap["body"])
			}
		case model.BodyTable:
			for _, row := range section.Table.Rows {
				c.write(tableRowLine(section.Table.Columns, row), StyleMap["body"])
			}
		case model.BodyBlocks:
			for _, block := range section.Blocks {
				c.write(block.Title, StyleMap["blockTitle"])
				if block.Subtitle != "" {
					c.write(block.Subtitle, StyleMap["meta"])
				}
				for _, pair := range block.Pairs {
					c.write(pair.Label+": "+pair.Value, StyleMap["body"])
				}
			}
		}
		c.gap()
	}

	if doc.Closing != nil {
		c.write(doc.Closing.Label+": "+doc.Closing.Value, StyleMap["closing"])
	}
	return c.pages
}

// write wraps text to the content width and emits one line per cursor
// advance of half the font size. A page break is taken before any line
// that would start below the bottom margin.
func (c *pdfCursor) write(text string, style RunStyle) {
	size := style.points()
	c.canvas.SetFont(pdfFontFamily, fontStyle(style), size)
	advance := size * 0.5
	for _, paragraph := range strings.Split(text, "\n") {
		lines := c.canvas.SplitText(paragraph, pdfPageWidth-2*pdfMargin)
		if len(lines) == 0 {
			lines = []string{""}
		}
		for _, line := range lines {
			if c.y > pdfPageHeight-pdfMargin {
				c.newPage()
			}
			c.canvas.Text(pdfMargin, c.y, line)
			c.y += advance
		}
	}
}

func (c *pdfCursor) gap() {
	c.y += pdfBlockGap
}

func (c *pdfCursor) newPage() {
	c.canvas.AddPage()
	c.pages++
	c.y = pdfMargin
}

func fontStyle(style RunStyle) string {
	out := ""
	if style.Bold {
		out += "B"
	}
	if style.Italic {
		out += "I"
	}
	return out
}

func tableRowLine(columns, row []string) string {
	parts := make([]string, 0, len(row))
	for i, cell := range row {
		if i < len(columns) {
			parts = append(parts, columns[i]+": "+cell)
			continue
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, " | ")
}

var _ Renderer = PDFRenderer{}
