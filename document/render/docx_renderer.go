package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"advisory-backend/document/model"
)

// A4 with 2 cm margins, in twentieths of a point.
const (
	pageWidthTwips   = 11906
	pageHeightTwips  = 16838
	pageMarginTwips  = 1134
	contentWidthTwip = pageWidthTwips - 2*pageMarginTwips
	labelColumnTwips = 3000
	headerShade      = "E5E7EB"
)

// DOCXRenderer assembles WordprocessingML packages.
type DOCXRenderer struct{}

func (DOCXRenderer) Extension() string   { return "docx" }
func (DOCXRenderer) ContentType() string { return ContentTypeDOCX }

// Render builds the document body and packs it with static parts. Output is
// deterministic for a given document, including zip entry timestamps.
func (DOCXRenderer) Render(doc model.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	documentXML, err := renderDocumentXML(doc)
	if err != nil {
		return nil, err
	}
	if err := validateDocumentXMLStructure(documentXML); err != nil {
		return nil, err
	}

	modified := doc.GeneratedAt.UTC()
	if modified.IsZero() {
		modified = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"docProps/core.xml", corePropertiesXML(doc, modified)},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", documentXML},
	}

	var output bytes.Buffer
	writer := zip.NewWriter(&output)
	for _, part := range parts {
		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(w, part.content); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

func renderDocumentXML(doc model.Document) (string, error) {
	body := el("w:body", nil)
	add := func(nodes ...*xmlNode) { body.Children = append(body.Children, nodes...) }

	add(paragraph("Title", run(doc.Title, StyleMap["title"])))
	if doc.Subject != "" {
		add(paragraph("Subtitle", run(doc.Subject, StyleMap["subject"])))
	}
	if doc.GeneratedLine != "" {
		add(paragraph("", run(doc.GeneratedLine, StyleMap["generated"])))
	}

	for _, section := range doc.Sections {
		add(paragraph("Heading1", run(section.Heading, StyleMap["sectionHeading"])))
		switch section.Body {
		case model.BodyProse:
			for _, text := range section.Paragraphs {
				add(paragraph("", run(text, StyleMap["body"])))
			}
		case model.BodyKeyValue:
			add(keyValueTable(section.Pairs))
			add(paragraph(""))
		case model.BodyTable:
			add(columnTable(section.Table))
			add(paragraph(""))
		case model.BodyBlocks:
			for _, block := range section.Blocks {
				add(blockParagraphs(block)...)
			}
		default:
			return "", fmt.Errorf("section %q: unsupported body kind %q", section.Heading, section.Body)
		}
	}

	if doc.Closing != nil {
		add(paragraph("",
			run(doc.Closing.Label+": ", StyleMap["closing"]),
			run(doc.Closing.Value, StyleMap["closing"]),
		))
	}

	add(el("w:sectPr", nil,
		el("w:pgSz", []xml.Attr{attr("w:w", fmt.Sprint(pageWidthTwips)), attr("w:h", fmt.Sprint(pageHeightTwips))}),
		el("w:pgMar", []xml.Attr{
			attr("w:top", fmt.Sprint(pageMarginTwips)),
			attr("w:right", fmt.Sprint(pageMarginTwips)),
			attr("w:bottom", fmt.Sprint(pageMarginTwips)),
			attr("w:left", fmt.Sprint(pageMarginTwips)),
			attr("w:header", "708"),
			attr("w:footer", "708"),
			attr("w:gutter", "0"),
		}),
	))

	root := el("w:document", []xml.Attr{
		attr("xmlns:w", wmlNamespace),
		attr("xmlns:r", relNamespace),
	}, body)
	return encodeXMLDocument(root)
}

func keyValueTable(pairs []model.Pair) *xmlNode {
	valueWidth := contentWidthTwip - labelColumnTwips
	rows := make([]*xmlNode, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, el("w:tr", nil,
			tableCell(labelColumnTwips, headerShade, paragraph("", run(pair.Label, StyleMap["label"]))),
			tableCell(valueWidth, "", paragraph("", run(pair.Value, StyleMap["body"]))),
		))
	}
	return table([]int{labelColumnTwips, valueWidth}, rows...)
}

func columnTable(t *model.Table) *xmlNode {
	width := contentWidthTwip / len(t.Columns)
	widths := make([]int, len(t.Columns))
	header := el("w:tr", nil, el("w:trPr", nil, el("w:tblHeader", nil)))
	for i, col := range t.Columns {
		widths[i] = width
		header.Children = append(header.Children, tableCell(width, headerShade, paragraph("", run(col, StyleMap["label"]))))
	}
	rows := []*xmlNode{header}
	for _, row := range t.Rows {
		tr := el("w:tr", nil)
		for _, cell := range row {
			tr.Children = append(tr.Children, tableCell(width, "", paragraph("", run(cell, StyleMap["body"]))))
		}
		rows = append(rows, tr)
	}
	return table(widths, rows...)
}

func blockParagraphs(block model.Block) []*xmlNode {
	out := []*xmlNode{paragraph("Heading2", run(block.Title, StyleMap["blockTitle"]))}
	if block.Subtitle != "" {
		out = append(out, paragraph("", run(block.Subtitle, StyleMap["meta"])))
	}
	for _, pair := range block.Pairs {
		out = append(out, paragraph("",
			run(pair.Label+": ", StyleMap["label"]),
			run(pair.Value, StyleMap["body"]),
		))
	}
	return out
}

var errEmptyTableCell = errors.New("document.xml has an empty table cell")

// validateDocumentXMLStructure re-reads the encoded body and rejects shapes
// Word refuses to open or that would show blank cells.
func validateDocumentXMLStructure(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var stack []xml.Name
	type runState struct {
		seenText bool
	}
	var runs []runState
	var cellText *strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w\n%s", err, firstLines(xmlText, 5))
		}
		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			if isWmlElement(t.Name, "p") {
				for i := len(stack) - 2; i >= 0; i-- {
					if isWmlElement(stack[i], "p") {
						return fmt.Errorf("document.xml has nested <w:p>\n%s", firstLines(xmlText, 5))
					}
				}
			}
			if isWmlElement(t.Name, "tc") {
				cellText = &strings.Builder{}
			}
			if isWmlElement(t.Name, "r") {
				runs = append(runs, runState{})
			}
			if isWmlElement(t.Name, "t") && len(runs) > 0 {
				runs[len(runs)-1].seenText = true
			}
			if isWmlElement(t.Name, "rPr") && len(runs) > 0 && runs[len(runs)-1].seenText {
				return fmt.Errorf("document.xml has <w:rPr> after <w:t> in a run\n%s", firstLines(xmlText, 5))
			}
		case xml.CharData:
			if cellText != nil {
				cellText.Write(t)
			}
		case xml.EndElement:
			if isWmlElement(t.Name, "tc") && cellText != nil {
				if strings.TrimSpace(cellText.String()) == "" {
					return errEmptyTableCell
				}
				cellText = nil
			}
			if isWmlElement(t.Name, "r") && len(runs) > 0 {
				runs = runs[:len(runs)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}

func isWmlElement(name xml.Name, local string) bool {
	return name.Local == local && name.Space == wmlNamespace
}

func firstLines(text string, count int) string {
	if count <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) > count {
		lines = lines[:count]
	}
	return strings.Join(lines, "\n")
}

func corePropertiesXML(doc model.Document, modified time.Time) string {
	var title bytes.Buffer
	_ = xml.EscapeText(&title, []byte(cleanXMLText(doc.Title)))
	var subject bytes.Buffer
	_ = xml.EscapeText(&subject, []byte(cleanXMLText(doc.Subject)))
	stamp := modified.Format(time.RFC3339)
	return xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + title.String() + `</dc:title>` +
		`<dc:subject>` + subject.String() + `</dc:subject>` +
		`<dc:creator>Advisory Portal</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`</Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/><w:szCs w:val="22"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="120" w:line="264" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/><w:spacing w:after="80"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Subtitle"><w:name w:val="Subtitle"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="160" w:after="60"/><w:outlineLvl w:val="1"/></w:pPr></w:style>` +
	`<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders>` +
	`<w:top w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:left w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
	`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:right w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
	`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="D1D5DB"/>` +
	`</w:tblBorders></w:tblPr></w:style>` +
	`</w:styles>`

var _ Renderer = DOCXRenderer{}
