package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"advisory-backend/document/model"
)

const xlsxDefaultSheet = "Sheet1"

// XLSXRenderer lays a document out as rows of a single worksheet.
type XLSXRenderer struct{}

func (XLSXRenderer) Extension() string   { return "xlsx" }
func (XLSXRenderer) ContentType() string { return ContentTypeXLSX }

func (XLSXRenderer) Render(doc model.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(doc.Kind)
	if err := f.SetSheetName(xlsxDefaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	w.line(styles.title, doc.Title)
	if doc.Subject != "" {
		w.line(styles.subject, doc.Subject)
	}
	if doc.GeneratedLine != "" {
		w.line(styles.meta, doc.GeneratedLine)
	}
	w.row++

	maxCols := 2
	for _, section := range doc.Sections {
		w.line(styles.heading, section.Heading)
		switch section.Body {
		case model.BodyProse:
			for _, text := range section.Paragraphs {
				w.line(styles.wrap, text)
			}
		case model.BodyKeyValue:
			for _, pair := range section.Pairs {
				w.pair(styles, pair)
			}
		case model.BodyTable:
			if len(section.Table.Columns) > maxCols {
				maxCols = len(section.Table.Columns)
			}
			w.cells(styles.label, section.Table.Columns)
			for _, row := range section.Table.Rows {
				w.cells(styles.wrap, row)
			}
		case model.BodyBlocks:
			for _, block := range section.Blocks {
				w.line(styles.label, block.Title)
				if block.Subtitle != "" {
					w.line(styles.meta, block.Subtitle)
				}
				for _, pair := range block.Pairs {
					w.pair(styles, pair)
				}
			}
		}
		w.row++
	}
	if doc.Closing != nil {
		w.pair(styles, *doc.Closing)
	}
	if w.err != nil {
		return nil, fmt.Errorf("xlsx write: %w", w.err)
	}

	lastCol, err := excelize.ColumnNumberToName(maxCols)
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 48); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx output: %w", err)
	}
	return buf.Bytes(), nil
}

type xlsxStyles struct {
	title, subject, heading, label, meta, wrap int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var out xlsxStyles
	defs := []struct {
		dst   *int
		style RunStyle
		wrap  bool
	}{
		{&out.title, StyleMap["title"], false},
		{&out.subject, StyleMap["subject"], false},
		{&out.heading, StyleMap["sectionHeading"], false},
		{&out.label, StyleMap["label"], true},
		{&out.meta, StyleMap["meta"], true},
		{&out.wrap, StyleMap["body"], true},
	}
	for _, def := range defs {
		id, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:   def.style.Bold,
				Italic: def.style.Italic,
				Size:   def.style.points(),
				Color:  def.style.Color,
			},
			Alignment: &excelize.Alignment{WrapText: def.wrap, Vertical: "top"},
		})
		if err != nil {
			return xlsxStyles{}, fmt.Errorf("xlsx style: %w", err)
		}
		*def.dst = id
	}
	return out, nil
}

// sheetWriter appends rows and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) line(style int, text string) {
	w.cells(style, []string{text})
}

func (w *sheetWriter) pair(styles xlsxStyles, pair model.Pair) {
	if w.err != nil {
		return
	}
	w.set(1, styles.label, pair.Label)
	w.set(2, styles.wrap, pair.Value)
	w.row++
}

func (w *sheetWriter) cells(style int, values []string) {
	if w.err != nil {
		return
	}
	for i, v := range values {
		w.set(i+1, style, v)
	}
	w.row++
}

func (w *sheetWriter) set(col, style int, value string) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStr(w.sheet, cell, value); err != nil {
		w.err = err
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, cell, cell, style)
}

func sheetName(kind string) string {
	name := strings.TrimSpace(kind)
	if name == "" {
		return "Export"
	}
	return name
}

var _ Renderer = XLSXRenderer{}
