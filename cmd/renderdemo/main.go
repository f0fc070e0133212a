package main

// Render the demo student's CV, SOP and LOR in every format and check the
// outputs read back:
//   go run ./cmd/renderdemo -out ./out

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"advisory-backend/internal/export"
	"advisory-backend/internal/extract"
	"advisory-backend/internal/records"
)

const demoUserID = "demo-student"

func main() {
	outDir := flag.String("out", "./out", "directory for generated files")
	full := flag.Bool("pdf-full", false, "render detail sections into PDFs too")
	flag.Parse()

	if err := run(context.Background(), *outDir, *full); err != nil {
		fmt.Fprintf(os.Stderr, "renderdemo failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, outDir string, pdfFull bool) error {
	store := records.NewMemoryStore()
	records.SeedSample(store, demoUserID)

	svc := export.NewService(store, pdfFull)
	generatedAt := time.Date(2024, time.March, 5, 9, 30, 0, 0, time.UTC)
	svc.Now = func() time.Time { return generatedAt }
	svc.ValidatePDF = extract.ValidatePDF

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, kind := range []export.Kind{export.KindCV, export.KindSOP, export.KindLOR} {
		doc, _, err := svc.Document(ctx, demoUserID, kind)
		if err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		spec, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(outDir, string(kind)+"_document.json"), spec, 0o644); err != nil {
			return err
		}

		for _, format := range []export.Format{export.FormatDOCX, export.FormatPDF, export.FormatXLSX} {
			artifact, err := svc.Export(ctx, demoUserID, kind, format)
			if err != nil {
				return fmt.Errorf("%s %s: %w", kind, format, err)
			}
			path := filepath.Join(outDir, artifact.FileName)
			if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
				return err
			}
			if err := validate(ctx, artifact, doc.Title); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Printf("OK: wrote %s\n", path)
		}
	}
	return nil
}

func validate(ctx context.Context, artifact export.Artifact, title string) error {
	switch artifact.Format {
	case export.FormatDOCX:
		if err := requireZipEntries(artifact.Data, "[Content_Types].xml", "word/document.xml", "word/styles.xml"); err != nil {
			return err
		}
	case export.FormatXLSX:
		if err := requireZipEntries(artifact.Data, "xl/workbook.xml"); err != nil {
			return err
		}
	case export.FormatPDF:
		pages, err := extract.PDFPageCount(artifact.Data)
		if err != nil {
			return err
		}
		if pages < 1 {
			return errors.New("pdf has no pages")
		}
	}

	text, err := extract.Text(ctx, artifact.Data, string(artifact.Format))
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	if !strings.Contains(text, title) {
		return fmt.Errorf("title %q missing from rendered text", title)
	}
	if strings.Contains(text, "{{") {
		return errors.New("unresolved placeholder in rendered text")
	}
	return nil
}

func requireZipEntries(data []byte, names ...string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	have := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		have[f.Name] = true
	}
	for _, name := range names {
		if !have[name] {
			return fmt.Errorf("missing zip entry %s", name)
		}
	}
	return nil
}
