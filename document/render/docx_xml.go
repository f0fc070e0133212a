package render

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
	"unicode/utf8"
)

const wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
const relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

type xmlNode struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*xmlNode
	Text     string
	IsText   bool
}

// el builds a prefixed WordprocessingML element such as w:p.
func el(name string, attrs []xml.Attr, children ...*xmlNode) *xmlNode {
	return &xmlNode{Name: xml.Name{Local: name}, Attr: attrs, Children: children}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func val(value string) []xml.Attr {
	return []xml.Attr{attr("w:val", value)}
}

func textNode(s string) *xmlNode {
	return &xmlNode{IsText: true, Text: s}
}

func encodeXMLDocument(root *xmlNode) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buf)
	if err := encodeXMLNode(encoder, root); err != nil {
		return "", err
	}
	if err := encoder.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeXMLNode(encoder *xml.Encoder, node *xmlNode) error {
	if node.IsText {
		return encoder.EncodeToken(xml.CharData([]byte(node.Text)))
	}
	start := xml.StartElement{Name: node.Name, Attr: node.Attr}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := encodeXMLNode(encoder, child); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}

func runProperties(style RunStyle) *xmlNode {
	rPr := el("w:rPr", nil)
	if style.Bold {
		rPr.Children = append(rPr.Children, el("w:b", nil))
	}
	if style.Italic {
		rPr.Children = append(rPr.Children, el("w:i", nil))
	}
	if style.Color != "" {
		rPr.Children = append(rPr.Children, el("w:color", val(style.Color)))
	}
	if style.Size > 0 {
		size := strconv.Itoa(style.Size)
		rPr.Children = append(rPr.Children, el("w:sz", val(size)), el("w:szCs", val(size)))
	}
	return rPr
}

// run emits one text run; embedded newlines become line breaks.
func run(text string, style RunStyle) *xmlNode {
	r := el("w:r", nil, runProperties(style))
	for i, line := range strings.Split(cleanXMLText(text), "\n") {
		if i > 0 {
			r.Children = append(r.Children, el("w:br", nil))
		}
		r.Children = append(r.Children, el("w:t", []xml.Attr{attr("xml:space", "preserve")}, textNode(line)))
	}
	return r
}

func paragraph(styleID string, runs ...*xmlNode) *xmlNode {
	p := el("w:p", nil)
	if styleID != "" {
		p.Children = append(p.Children, el("w:pPr", nil, el("w:pStyle", val(styleID))))
	}
	p.Children = append(p.Children, runs...)
	return p
}

func tableCell(widthTwips int, shade string, p *xmlNode) *xmlNode {
	tcPr := el("w:tcPr", nil, el("w:tcW", []xml.Attr{attr("w:w", strconv.Itoa(widthTwips)), attr("w:type", "dxa")}))
	if shade != "" {
		tcPr.Children = append(tcPr.Children, el("w:shd", []xml.Attr{attr("w:val", "clear"), attr("w:color", "auto"), attr("w:fill", shade)}))
	}
	return el("w:tc", nil, tcPr, p)
}

func table(widths []int, rows ...*xmlNode) *xmlNode {
	grid := el("w:tblGrid", nil)
	for _, w := range widths {
		grid.Children = append(grid.Children, el("w:gridCol", []xml.Attr{attr("w:w", strconv.Itoa(w))}))
	}
	tblPr := el("w:tblPr", nil,
		el("w:tblStyle", val("TableGrid")),
		el("w:tblW", []xml.Attr{attr("w:w", "5000"), attr("w:type", "pct")}),
	)
	tbl := el("w:tbl", nil, tblPr, grid)
	tbl.Children = append(tbl.Children, rows...)
	return tbl
}

func walkXML(node *xmlNode, visit func(*xmlNode) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node) {
		return false
	}
	for _, child := range node.Children {
		if !walkXML(child, visit) {
			return false
		}
	}
	return true
}

func nodeTextContent(node *xmlNode) string {
	var sb strings.Builder
	walkXML(node, func(n *xmlNode) bool {
		if n.IsText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}

// cleanXMLText drops characters XML 1.0 cannot carry.
func cleanXMLText(s string) string {
	if !strings.ContainsFunc(s, invalidXMLRune) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if !invalidXMLRune(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func invalidXMLRune(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == utf8.RuneError || (r >= 0xFFFE && r <= 0xFFFF)
}
