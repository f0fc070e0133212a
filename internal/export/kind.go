package export

import (
	"fmt"
	"strings"
)

// Kind identifies a questionnaire document.
type Kind string

const (
	KindCV  Kind = "CV"
	KindSOP Kind = "SOP"
	KindLOR Kind = "LOR"
)

// Format identifies an output file format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

var (
	kinds   = []string{string(KindCV), string(KindSOP), string(KindLOR)}
	formats = []string{string(FormatDOCX), string(FormatPDF), string(FormatXLSX)}
)

// Kinds lists every document kind.
func Kinds() []string { return append([]string(nil), kinds...) }

// Formats lists every output format, docx first.
func Formats() []string { return append([]string(nil), formats...) }

// ParseKind accepts a kind in any letter case.
func ParseKind(raw string) (Kind, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, k := range kinds {
		if v == k {
			return Kind(k), nil
		}
	}
	return "", fmt.Errorf("%w: unknown document kind %q", ErrInvalidInput, raw)
}

// ParseFormat accepts a format in any letter case; empty means docx.
func ParseFormat(raw string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return FormatDOCX, nil
	}
	for _, f := range formats {
		if v == f {
			return Format(f), nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrInvalidInput, raw)
}

// Title is the heading printed at the top of a document of this kind.
func (k Kind) Title() string {
	switch k {
	case KindCV:
		return "Curriculum Vitae"
	case KindSOP:
		return "Statement of Purpose"
	case KindLOR:
		return "Letter of Recommendation"
	default:
		return string(k)
	}
}
