package export

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"advisory-backend/document/model"
	"advisory-backend/document/render"
	"advisory-backend/internal/download"
	"advisory-backend/internal/extract"
	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/metrics"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(seededStore(t), false)
	svc.Now = func() time.Time { return fixedTime }
	return svc
}

// metricValue reads one sample from the rendered metrics.
func metricValue(t *testing.T, series string) uint64 {
	t.Helper()
	for _, line := range strings.Split(metrics.Render(), "\n") {
		if strings.HasPrefix(line, series+" ") {
			v, err := strconv.ParseUint(strings.TrimPrefix(line, series+" "), 10, 64)
			if err != nil {
				t.Fatalf("parse %s: %v", series, err)
			}
			return v
		}
	}
	t.Fatalf("series %s not rendered", series)
	return 0
}

type failingRenderer struct{}

func (failingRenderer) Render(model.Document) ([]byte, error) { return nil, errors.New("boom") }
func (failingRenderer) Extension() string                     { return "pdf" }
func (failingRenderer) ContentType() string                   { return render.ContentTypePDF }

type panickingRenderer struct{}

func (panickingRenderer) Render(model.Document) ([]byte, error) {
	panic("runtime error: index out of range [65533] with length 256")
}
func (panickingRenderer) Extension() string   { return "pdf" }
func (panickingRenderer) ContentType() string { return render.ContentTypePDF }

type recordingSink struct {
	err   error
	files []download.File
}

func (s *recordingSink) Deliver(_ context.Context, f download.File, _ download.Staged) error {
	s.files = append(s.files, f)
	return s.err
}

func TestExportIsByteIdenticalForSameInputs(t *testing.T) {
	svc := newTestService(t)
	for _, kind := range []Kind{KindCV, KindSOP, KindLOR} {
		for _, format := range []Format{FormatDOCX, FormatPDF, FormatXLSX} {
			first, err := svc.Export(context.Background(), "u1", kind, format)
			if err != nil {
				t.Fatalf("%s/%s: %v", kind, format, err)
			}
			second, err := svc.Export(context.Background(), "u1", kind, format)
			if err != nil {
				t.Fatalf("%s/%s second run: %v", kind, format, err)
			}
			if !bytes.Equal(first.Data, second.Data) {
				t.Fatalf("%s/%s: output differs between runs", kind, format)
			}
			if first.FileName != second.FileName || len(first.Data) == 0 {
				t.Fatalf("%s/%s: unexpected artifact %q (%d bytes)", kind, format, first.FileName, len(first.Data))
			}
		}
	}
}

func TestExportFullPDFReadsBackAccentedSample(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	cv, _ := store.GetCVResponse(ctx, "u1")
	cv.FullName = "José Müller"
	store.PutCVResponse(cv)
	sop, _ := store.GetSOPResponse(ctx, "u1")
	sop.FullName = "José Müller"
	store.PutSOPResponse(sop)
	lor, _ := store.GetLORResponse(ctx, "u1")
	lor.StudentName = "José Müller"
	store.PutLORResponse(lor)

	svc := NewService(store, true)
	svc.Now = func() time.Time { return fixedTime }

	wants := map[Kind][]string{
		KindCV:  {"Curriculum Vitae", "Lycée Pasteur", "Baccalauréat", "2012-09-01 – 2015-06-30", "2022-09-01 – Present"},
		KindSOP: {"Statement of Purpose", "Student Information"},
		KindLOR: {"Letter of Recommendation", "Recommendation Strength"},
	}
	for kind, want := range wants {
		a, err := svc.Export(ctx, "u1", kind, FormatPDF)
		if err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if a.FileName != string(kind)+"_José_Müller_2024-03-05.pdf" {
			t.Fatalf("%s: file name = %q", kind, a.FileName)
		}
		text, err := extract.Text(ctx, a.Data, extract.FormatPDF)
		if err != nil {
			t.Fatalf("%s: extract: %v", kind, err)
		}
		flat := strings.Join(strings.Fields(text), " ")
		for _, w := range append(want, "José Müller") {
			if !strings.Contains(flat, w) {
				t.Fatalf("%s: expected %q in:\n%s", kind, w, text)
			}
		}
	}
}

func TestExportArtifactMetadata(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Export(context.Background(), "u1", KindSOP, FormatPDF)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if a.FileName != "SOP_Jane_Q._Doe_2024-03-05.pdf" {
		t.Fatalf("file name = %q", a.FileName)
	}
	if a.ContentType != render.ContentTypePDF || a.UserID != "u1" || !a.GeneratedAt.Equal(fixedTime) {
		t.Fatalf("unexpected artifact: %+v", a)
	}
	if !bytes.HasPrefix(a.Data, []byte("%PDF-")) {
		t.Fatalf("expected PDF header")
	}
}

func TestExportWrapsRenderFailure(t *testing.T) {
	svc := newTestService(t)
	svc.Renderers[FormatPDF] = failingRenderer{}
	_, err := svc.Export(context.Background(), "u1", KindCV, FormatPDF)
	if !errors.Is(err, ErrExportGenerationFailed) {
		t.Fatalf("expected ErrExportGenerationFailed, got %v", err)
	}
}

func TestExportRecoversRendererPanic(t *testing.T) {
	svc := newTestService(t)
	svc.Renderers[FormatPDF] = panickingRenderer{}
	a, err := svc.Export(context.Background(), "u1", KindCV, FormatPDF)
	if !errors.Is(err, ErrExportGenerationFailed) {
		t.Fatalf("expected ErrExportGenerationFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "index out of range") || a.Data != nil {
		t.Fatalf("unexpected result %v (%d bytes)", err, len(a.Data))
	}
}

func TestExportRejectsInvalidPDF(t *testing.T) {
	svc := newTestService(t)
	svc.ValidatePDF = func([]byte) error { return errors.New("corrupt xref") }
	_, err := svc.Export(context.Background(), "u1", KindLOR, FormatPDF)
	if !errors.Is(err, ErrExportGenerationFailed) {
		t.Fatalf("expected ErrExportGenerationFailed, got %v", err)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Export(context.Background(), "u1", KindCV, Format("odt"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDownloadCountsCompletion(t *testing.T) {
	svc := newTestService(t)
	requested := metricValue(t, "export_requests_total")
	completed := metricValue(t, "export_completed_total")

	sink := &recordingSink{}
	_, res, err := svc.Download(context.Background(), "u1", KindLOR, FormatDOCX, &download.Trigger{Primary: sink})
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if res.Via != download.ViaPrimary || len(sink.files) != 1 {
		t.Fatalf("expected primary delivery, got %+v", res)
	}
	if sink.files[0].Owner != "u1" || sink.files[0].Name != "LOR_Jane_Q._Doe_2024-03-05.docx" {
		t.Fatalf("unexpected delivered file: %+v", sink.files[0])
	}
	if metricValue(t, "export_requests_total") != requested+1 || metricValue(t, "export_completed_total") != completed+1 {
		t.Fatalf("counters not incremented")
	}
}

func TestDownloadCountsFailures(t *testing.T) {
	svc := newTestService(t)
	notFound := metricValue(t, `export_failed_total{reason="not_found"}`)
	downloadFailed := metricValue(t, `export_failed_total{reason="download"}`)

	if _, _, err := svc.Download(context.Background(), "missing", KindCV, FormatDOCX, &download.Trigger{Primary: &recordingSink{}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	broken := &download.Trigger{
		Primary:  &recordingSink{err: errors.New("blocked")},
		Fallback: &recordingSink{err: errors.New("also blocked")},
	}
	_, _, err := svc.Download(context.Background(), "u1", KindCV, FormatXLSX, broken)
	if !errors.Is(err, download.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}

	if metricValue(t, `export_failed_total{reason="not_found"}`) != notFound+1 {
		t.Fatalf("not_found failure not counted")
	}
	if metricValue(t, `export_failed_total{reason="download"}`) != downloadFailed+1 {
		t.Fatalf("download failure not counted")
	}
}

func TestDocumentHonoursFetchTimeout(t *testing.T) {
	svc := newTestService(t)
	svc.Fetcher = &Fetcher{Store: slowStore{Store: seededStore(t)}}
	svc.FetchTimeout = 20 * time.Millisecond

	_, _, err := svc.Document(context.Background(), "u1", KindLOR)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

// slowStore blocks profile reads until the context ends.
type slowStore struct {
	records.Store
}

func (s slowStore) GetProfile(ctx context.Context, _ string) (records.Profile, error) {
	<-ctx.Done()
	return records.Profile{}, ctx.Err()
}
