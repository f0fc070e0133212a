package model

import (
	"errors"
	"fmt"
)

var (
	errMissingTitle   = errors.New("document title is required")
	errMissingHeading = errors.New("section heading is required")
)

// SectionError reports a malformed section.
type SectionError struct {
	Heading string
	Reason  string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q: %s", e.Heading, e.Reason)
}
