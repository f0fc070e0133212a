package render

// RunStyle captures the inline run formatting used across renderers.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int // half-points, as WordprocessingML expects
	Color  string
}

const (
	TitleColor   = "111111"
	HeadingColor = "1F2937"
	MutedColor   = "6B7280"
	TitleSize    = 36
	SubjectSize  = 26
	HeadingSize  = 26
	BodySize     = 22
)

// StyleMap centralizes formatting for document elements. The PDF and XLSX
// renderers derive their font sizes from the same entries.
var StyleMap = map[string]RunStyle{
	"title": {
		Bold:  true,
		Size:  TitleSize,
		Color: TitleColor,
	},
	"subject": {
		Size:  SubjectSize,
		Color: HeadingColor,
	},
	"generated": {
		Italic: true,
		Size:   18,
		Color:  MutedColor,
	},
	"sectionHeading": {
		Bold:  true,
		Size:  HeadingSize,
		Color: HeadingColor,
	},
	"label": {
		Bold: true,
		Size: BodySize,
	},
	"body": {
		Size: BodySize,
	},
	"blockTitle": {
		Bold: true,
		Size: BodySize,
	},
	"meta": {
		Italic: true,
		Size:   BodySize,
		Color:  MutedColor,
	},
	"closing": {
		Bold:  true,
		Size:  24,
		Color: HeadingColor,
	},
}

// points converts a half-point size to points.
func (s RunStyle) points() float64 {
	if s.Size <= 0 {
		return float64(BodySize) / 2
	}
	return float64(s.Size) / 2
}
