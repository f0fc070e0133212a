// Package extract reads rendered exports back into plain text and checks
// PDF structure. The export CLI and tests use it to confirm a file carries
// what the document model said it would.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

// Export formats understood by Text and returned by Sniff.
const (
	FormatDOCX = "docx"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

var ErrUnsupported = errors.New("unsupported export format")

// Text returns the readable text of an export. An empty format is sniffed
// from the content.
func Text(ctx context.Context, data []byte, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if format == "" {
		format = Sniff(data)
	}
	switch strings.ToLower(format) {
	case FormatPDF:
		return pdfText(data)
	case FormatDOCX:
		return docxText(data)
	case FormatXLSX:
		return xlsxText(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupported, format)
	}
}

// Sniff reports the export format of data, or "" when it is none of them.
// DOCX and XLSX are both zip packages, told apart by their main part.
func Sniff(data []byte) string {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return FormatPDF
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return FormatDOCX
		case "xl/workbook.xml":
			return FormatXLSX
		}
	}
	return ""
}

func pdfText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	part, err := zr.Open("word/document.xml")
	if err != nil {
		return "", fmt.Errorf("docx main part: %w", err)
	}
	defer part.Close()
	return wordprocessingText(part)
}

// wordprocessingText flattens document.xml the way the XLSX export lays out
// the same content: table cells separated by tabs, one line per row or
// paragraph.
func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		buf    strings.Builder
		inCell int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				inCell++
			case "br":
				buf.WriteByte('\n')
			case "tab":
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tc":
				inCell--
				buf.WriteByte('\t')
			case "tr":
				buf.WriteByte('\n')
			case "p":
				if inCell == 0 {
					buf.WriteByte('\n')
				}
			}
		}
	}
	return tidyLines(buf.String()), nil
}

func xlsxText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("xlsx sheet %s: %w", sheet, err)
		}
		for _, row := range rows {
			buf.WriteString(strings.Join(row, "\t"))
			buf.WriteByte('\n')
		}
	}
	return tidyLines(buf.String()), nil
}

// tidyLines trims trailing tabs and spaces and drops blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimRight(line, " \t"); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
