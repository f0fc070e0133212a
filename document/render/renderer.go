package render

import "advisory-backend/document/model"

// Content types of the supported export formats.
const (
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Renderer serializes a document specification into one file format.
type Renderer interface {
	Render(doc model.Document) ([]byte, error)
	Extension() string
	ContentType() string
}
