package extract

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

func pdfConfig() *pdfmodel.Configuration {
	// Keep pdfcpu from creating a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// ValidatePDF checks that data is a structurally valid PDF.
func ValidatePDF(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), pdfConfig()); err != nil {
		return fmt.Errorf("validate pdf: %w", err)
	}
	return nil
}

// PDFPageCount returns the number of pages in data.
func PDFPageCount(data []byte) (int, error) {
	n, err := api.PageCount(bytes.NewReader(data), pdfConfig())
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return n, nil
}
