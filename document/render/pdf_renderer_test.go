package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"

	"advisory-backend/document/model"
	"advisory-backend/internal/extract"
)

// recordingCanvas splits text on newlines only and records every call.
type recordingCanvas struct {
	pages int
	lines []placedLine
	fonts []float64
}

type placedLine struct {
	page int
	y    float64
	text string
}

func (c *recordingCanvas) AddPage() { c.pages++ }

func (c *recordingCanvas) SetFont(_, _ string, size float64) {
	c.fonts = append(c.fonts, size)
}

func (c *recordingCanvas) SplitText(text string, _ float64) []string {
	if text == "" {
		return nil
	}
	return []string{text}
}

func (c *recordingCanvas) Text(_, y float64, text string) {
	c.lines = append(c.lines, placedLine{page: c.pages, y: y, text: text})
}

func (c *recordingCanvas) texts() string {
	var b strings.Builder
	for _, l := range c.lines {
		b.WriteString(l.text)
		b.WriteString("\n")
	}
	return b.String()
}

func TestLayoutPDFAdvancesByHalfFontSize(t *testing.T) {
	canvas := &recordingCanvas{}
	doc := model.Document{
		Title: "Letter of Recommendation",
		Sections: []model.Section{
			{Heading: "Key Strengths", Body: model.BodyProse, Paragraphs: []string{"one\ntwo"}},
		},
	}
	layoutPDF(doc, canvas)

	if len(canvas.lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(canvas.lines), canvas.texts())
	}
	if canvas.lines[0].y != pdfMargin {
		t.Fatalf("first line at %v, want %v", canvas.lines[0].y, pdfMargin)
	}
	titleAdvance := StyleMap["title"].points() * 0.5
	wantHeading := pdfMargin + titleAdvance + pdfBlockGap
	if canvas.lines[1].y != wantHeading {
		t.Fatalf("heading at %v, want %v", canvas.lines[1].y, wantHeading)
	}
	bodyAdvance := StyleMap["body"].points() * 0.5
	if got := canvas.lines[3].y - canvas.lines[2].y; got != bodyAdvance {
		t.Fatalf("body advance %v, want %v", got, bodyAdvance)
	}
}

func TestLayoutPDFBreaksPagesPastBottomMargin(t *testing.T) {
	paragraphs := make([]string, 120)
	for i := range paragraphs {
		paragraphs[i] = "line"
	}
	canvas := &recordingCanvas{}
	pages := layoutPDF(model.Document{
		Title:    "Statement of Purpose",
		Sections: []model.Section{{Heading: "Academic Background", Body: model.BodyProse, Paragraphs: paragraphs}},
	}, canvas)

	if pages < 2 || pages != canvas.pages {
		t.Fatalf("expected multiple pages, got %d (canvas %d)", pages, canvas.pages)
	}
	for _, l := range canvas.lines {
		if l.y > pdfPageHeight-pdfMargin {
			t.Fatalf("line %q drawn at %v below the bottom margin", l.text, l.y)
		}
	}
	if canvas.lines[len(canvas.lines)-1].page != pages {
		t.Fatalf("last line should be on the last page")
	}
}

func TestLayoutPDFWritesEveryBodyKind(t *testing.T) {
	canvas := &recordingCanvas{}
	layoutPDF(sampleDocument(), canvas)
	out := canvas.texts()

	for _, want := range []string{
		"Curriculum Vitae",
		"Ada Lovelace",
		"Full Name: Ada Lovelace",
		"Institution: University of London | Period: 1832 – 1835",
		"Translator at Taylor's Scientific Memoirs",
		"Achievements: Note G",
		"Recommendation Strength: STRONG",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in layout:\n%s", want, out)
		}
	}
}

func TestPDFRenderSummarySkipsDetailSections(t *testing.T) {
	doc := sampleDocument()

	summary := &recordingCanvas{}
	layoutPDF(doc.Summary(), summary)
	if strings.Contains(summary.texts(), "Mathematics salons") {
		t.Fatalf("summary layout must skip detail sections")
	}

	full := &recordingCanvas{}
	layoutPDF(doc, full)
	if !strings.Contains(full.texts(), "Mathematics salons") {
		t.Fatalf("full layout must include detail sections")
	}
}

func TestPDFRenderProducesPDF(t *testing.T) {
	for _, full := range []bool{false, true} {
		data, err := PDFRenderer{Full: full}.Render(sampleDocument())
		if err != nil {
			t.Fatalf("render (full=%v): %v", full, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF-")) {
			t.Fatalf("missing PDF header")
		}
		again, err := PDFRenderer{Full: full}.Render(sampleDocument())
		if err != nil {
			t.Fatalf("second render: %v", err)
		}
		if !bytes.Equal(data, again) {
			t.Fatalf("expected identical output for identical input (full=%v)", full)
		}
	}
}

func TestWrapTextBreaksAfterLastFittingSpace(t *testing.T) {
	byteWidth := func(s string) float64 { return float64(len(s)) }
	cases := []struct {
		in    string
		width float64
		want  []string
	}{
		{"alpha beta gamma", 10, []string{"alpha beta", "gamma"}},
		{"abcdefghijkl", 5, []string{"abcde", "fghij", "kl"}},
		{"fits", 10, []string{"fits"}},
		{"ab cdefghijklmn", 5, []string{"ab", "cdefg", "hijkl", "mn"}},
		{"", 10, nil},
	}
	for _, tc := range cases {
		got := wrapText(tc.in, tc.width, byteWidth)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("wrapText(%q, %v) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}

func TestPDFRenderDrawsNonASCIIText(t *testing.T) {
	long := strings.Repeat("Müller studied the Analytical Engine in São Paulo. ", 40)
	doc := model.Document{
		Kind:          "CV",
		Title:         "Curriculum Vitae",
		Subject:       "José Müller",
		GeneratedLine: "Generated on March 5, 2024",
		GeneratedAt:   time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
		Sections: []model.Section{
			{Heading: "Education", Body: model.BodyTable, Table: &model.Table{
				Columns: []string{"Institution", "Period"},
				Rows:    [][]string{{"Lycée Pasteur", "1832 – 1835"}},
			}},
			{Heading: "Work Experience", Body: model.BodyBlocks, Blocks: []model.Block{{
				Title:    "Analyst at Zürich Rück",
				Subtitle: "2020-09-01 – Present",
				Pairs:    []model.Pair{{Label: "Location", Value: "北京"}},
			}}},
			{Heading: "Professional Summary", Body: model.BodyProse, Paragraphs: []string{long}},
		},
	}

	data, err := PDFRenderer{Full: true}.Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := extract.ValidatePDF(data); err != nil {
		t.Fatalf("ValidatePDF: %v", err)
	}
	text, err := extract.Text(context.Background(), data, extract.FormatPDF)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	flat := strings.Join(strings.Fields(text), " ")
	for _, want := range []string{
		"José Müller",
		"Institution: Lycée Pasteur | Period: 1832 – 1835",
		"Analyst at Zürich Rück",
		"2020-09-01 – Present",
		"Location: ..",
		"in São Paulo. Müller studied",
	} {
		if !strings.Contains(flat, want) {
			t.Fatalf("expected %q in extracted text:\n%s", want, text)
		}
	}
}

func TestPDFCanvasWrapsToContentWidth(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	canvas := &fpdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.AddPage()
	canvas.SetFont(pdfFontFamily, "", 11)

	width := pdfPageWidth - 2*pdfMargin
	lines := canvas.SplitText(strings.Repeat("Überprüfung – Ergebnis ", 30), width)
	if len(lines) < 2 {
		t.Fatalf("expected the paragraph to wrap, got %d line(s)", len(lines))
	}
	for _, line := range lines {
		if w := pdf.GetStringWidth(line); w > width {
			t.Fatalf("line %q is %.1fmm wide, limit %.1fmm", line, w, width)
		}
	}
}
