package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advisory-backend/document/model"
	"advisory-backend/document/render"
	"advisory-backend/internal/download"
	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/metrics"
	"advisory-backend/internal/shared/telemetry"
)

const defaultFetchTimeout = 10 * time.Second

// Artifact is a rendered export ready for delivery.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Kind        Kind
	Format      Format
	UserID      string
	GeneratedAt time.Time
}

// File converts the artifact for the download trigger.
func (a Artifact) File() download.File {
	return download.File{
		Name:        a.FileName,
		ContentType: a.ContentType,
		Data:        a.Data,
		Owner:       a.UserID,
	}
}

// Service runs fetch, resolve, build and render for one export at a time.
// It keeps no state between calls.
type Service struct {
	Fetcher   *Fetcher
	Renderers map[Format]render.Renderer
	Now       func() time.Time
	// ValidatePDF, when set, checks rendered PDFs before they are returned.
	ValidatePDF  func([]byte) error
	FetchTimeout time.Duration
}

// NewService wires a service over store with the default renderers.
func NewService(store records.Store, pdfFull bool) *Service {
	return &Service{
		Fetcher:   &Fetcher{Store: store},
		Renderers: DefaultRenderers(pdfFull),
		Now:       time.Now,
	}
}

// DefaultRenderers returns one renderer per supported format.
func DefaultRenderers(pdfFull bool) map[Format]render.Renderer {
	return map[Format]render.Renderer{
		FormatDOCX: render.DOCXRenderer{},
		FormatPDF:  render.PDFRenderer{Full: pdfFull},
		FormatXLSX: render.XLSXRenderer{},
	}
}

// Document fetches and resolves userID's records for kind and returns the
// document specification every renderer draws from.
func (s *Service) Document(ctx context.Context, userID string, kind Kind) (model.Document, Bundle, error) {
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	recs, err := s.Fetcher.Fetch(fetchCtx, userID, kind)
	if err != nil {
		return model.Document{}, Bundle{}, err
	}

	bundle := Resolve(recs, s.now())
	doc, err := Build(bundle)
	if err != nil {
		return model.Document{}, Bundle{}, err
	}
	return doc, bundle, nil
}

// Export renders userID's kind document in format. The same records and
// clock always yield byte-identical data.
func (s *Service) Export(ctx context.Context, userID string, kind Kind, format Format) (Artifact, error) {
	renderer, ok := s.Renderers[format]
	if !ok {
		return Artifact{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}

	doc, bundle, err := s.Document(ctx, userID, kind)
	if err != nil {
		return Artifact{}, err
	}

	data, err := renderDocument(renderer, doc)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: render %s: %w", ErrExportGenerationFailed, format, err)
	}
	if format == FormatPDF && s.ValidatePDF != nil {
		if err := s.ValidatePDF(data); err != nil {
			return Artifact{}, fmt.Errorf("%w: %w", ErrExportGenerationFailed, err)
		}
	}

	return Artifact{
		FileName:    FileName(kind, bundle.DisplayName, bundle.GeneratedAt, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
		Kind:        kind,
		Format:      format,
		UserID:      userID,
		GeneratedAt: bundle.GeneratedAt,
	}, nil
}

// Download exports and hands the artifact to trigger. Every outcome is logged
// and counted.
func (s *Service) Download(ctx context.Context, userID string, kind Kind, format Format, trigger *download.Trigger) (Artifact, download.Result, error) {
	start := time.Now()
	metrics.IncExportRequested()
	fields := map[string]any{
		"user_id": userID,
		"kind":    string(kind),
		"format":  string(format),
	}
	defer func() {
		metrics.ObserveExportDurationMs(float64(time.Since(start).Milliseconds()))
	}()

	artifact, err := s.Export(ctx, userID, kind, format)
	if err != nil {
		fields["error"] = err
		metrics.IncExportFailed(failureReason(err))
		telemetry.Error("export.failed", fields)
		return Artifact{}, download.Result{}, err
	}
	fields["file"] = artifact.FileName
	fields["bytes"] = len(artifact.Data)

	res, err := trigger.Deliver(ctx, artifact.File())
	if err != nil {
		fields["error"] = err
		metrics.IncExportFailed(metrics.ReasonDownload)
		telemetry.Error("export.failed", fields)
		return artifact, download.Result{}, err
	}

	fields["via"] = res.Via
	fields["duration_ms"] = time.Since(start).Milliseconds()
	metrics.IncExportCompleted()
	metrics.AddExportBytes(string(format), len(artifact.Data))
	telemetry.Info("export.completed", fields)
	return artifact, res, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return metrics.ReasonNotFound
	case errors.Is(err, ErrExportGenerationFailed):
		return metrics.ReasonGeneration
	case errors.Is(err, download.ErrDownloadFailed):
		return metrics.ReasonDownload
	default:
		return metrics.ReasonOther
	}
}

// renderDocument runs r and reports a panic inside the writer as an error.
func renderDocument(r render.Renderer, doc model.Document) (data []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			data, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return r.Render(doc)
}
