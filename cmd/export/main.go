package main

// Export one questionnaire document to a directory:
//   go run ./cmd/export -user <id> -kind CV -format pdf -out ./out
// With -sample the records come from a built-in demo student instead of the
// configured store.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"advisory-backend/internal/bootstrap"
	"advisory-backend/internal/download"
	"advisory-backend/internal/export"
	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/config"
)

const sampleUserID = "sample-student"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	userID := fs.String("user", "", "user id whose records are exported")
	rawKind := fs.String("kind", "CV", "document kind: CV, SOP or LOR")
	rawFormat := fs.String("format", "docx", "output format: docx, pdf or xlsx")
	outDir := fs.String("out", "./out", "directory the file is written to")
	sample := fs.Bool("sample", false, "export the built-in demo student")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := export.ParseKind(*rawKind)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(*rawFormat)
	if err != nil {
		return err
	}

	svc, closeFn, err := buildService(ctx, *sample)
	if err != nil {
		return err
	}
	defer closeFn()
	if *sample {
		*userID = sampleUserID
	}

	fallbackDir := filepath.Join(os.TempDir(), "advisory-exports")
	trigger := &download.Trigger{
		Primary:  download.DirSink{Dir: *outDir},
		Fallback: download.DirSink{Dir: fallbackDir},
	}
	artifact, res, err := svc.Download(ctx, *userID, kind, format, trigger)
	switch {
	case errors.Is(err, export.ErrNotFound):
		return fmt.Errorf("no %s questionnaire found for user %q", kind, *userID)
	case errors.Is(err, download.ErrDownloadFailed):
		return errors.New(download.FailureMessage)
	case err != nil:
		return err
	}

	dir := *outDir
	if res.Via == download.ViaFallback {
		dir = fallbackDir
	}
	fmt.Fprintf(stdout, "OK: wrote %s (%d bytes)\n", download.DirSink{Dir: dir}.Path(artifact.FileName), len(artifact.Data))
	return nil
}

func buildService(ctx context.Context, sample bool) (*export.Service, func(), error) {
	if sample {
		store := records.NewMemoryStore()
		records.SeedSample(store, sampleUserID)
		return export.NewService(store, false), func() {}, nil
	}

	app, err := bootstrap.BuildCore(ctx, config.Load())
	if err != nil {
		return nil, nil, err
	}
	return app.ExportService, func() { _ = app.Close() }, nil
}
