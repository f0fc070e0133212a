package export

import "errors"

var (
	// ErrNotFound indicates the primary questionnaire record or the profile does not exist.
	ErrNotFound = errors.New("export record not found")

	// ErrExportGenerationFailed indicates a document could not be serialized.
	ErrExportGenerationFailed = errors.New("export generation failed")

	// ErrInvalidInput indicates an unknown kind, format or user id.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the caller may not export another user's records.
	ErrForbidden = errors.New("forbidden")
)
