package model

import "time"

// BodyKind selects how a section body is laid out.
type BodyKind string

const (
	BodyProse    BodyKind = "prose"
	BodyTable    BodyKind = "table"
	BodyKeyValue BodyKind = "key-value"
	BodyBlocks   BodyKind = "blocks"
)

// Document is the format-neutral description of an export. It is built once
// per document kind and consumed by every renderer.
type Document struct {
	Kind          string    `json:"kind"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	GeneratedLine string    `json:"generatedLine"`
	GeneratedAt   time.Time `json:"generatedAt"`
	Sections      []Section `json:"sections"`
	Closing       *Pair     `json:"closing,omitempty"`
}

// Section is a heading followed by exactly one body.
type Section struct {
	Heading    string   `json:"heading"`
	Body       BodyKind `json:"body"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Pairs      []Pair   `json:"pairs,omitempty"`
	Table      *Table   `json:"table,omitempty"`
	Blocks     []Block  `json:"blocks,omitempty"`
	// Detail sections are left out of summary renderings.
	Detail bool `json:"detail,omitempty"`
}

// Pair is one label/value row.
type Pair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a header row plus data rows of equal width.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Block is a repeated entry such as one job, rendered as a title line and its details.
type Block struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Pairs    []Pair `json:"pairs"`
}

// Summary returns a copy of the document without detail sections.
func (d Document) Summary() Document {
	out := d
	out.Sections = make([]Section, 0, len(d.Sections))
	for _, s := range d.Sections {
		if s.Detail {
			continue
		}
		out.Sections = append(out.Sections, s)
	}
	return out
}

// Validate checks the structural rules renderers depend on.
func (d Document) Validate() error {
	if d.Title == "" {
		return errMissingTitle
	}
	for _, s := range d.Sections {
		if s.Heading == "" {
			return errMissingHeading
		}
		if s.Body == BodyTable {
			if s.Table == nil || len(s.Table.Columns) == 0 {
				return &SectionError{Heading: s.Heading, Reason: "table has no columns"}
			}
			for _, row := range s.Table.Rows {
				if len(row) != len(s.Table.Columns) {
					return &SectionError{Heading: s.Heading, Reason: "row width does not match columns"}
				}
			}
		}
	}
	return nil
}
