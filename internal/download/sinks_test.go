package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/storage/object/local"
)

func TestAttachmentSinkWritesAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if err := (AttachmentSink{C: c}).Deliver(context.Background(), sample, Staged{}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename=CV_Jane_2024-03-05.pdf` {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if w.Body.String() != "%PDF" {
		t.Fatalf("unexpected body %q", w.Body.String())
	}
}

func TestAttachmentSinkRefusesLargeFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	err := (AttachmentSink{C: c, MaxBytes: 2}).Deliver(context.Background(), sample, Staged{})
	if !errors.Is(err, errTooLarge) {
		t.Fatalf("expected errTooLarge, got %v", err)
	}
}

func TestLinkSinkRedirectsToStagedCopy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/exports/CV?format=pdf", nil)

	if err := (LinkSink{C: c}).Deliver(context.Background(), sample, Staged{}); !errors.Is(err, errNotStaged) {
		t.Fatalf("expected errNotStaged, got %v", err)
	}
	if err := (LinkSink{C: c}).Deliver(context.Background(), sample, Staged{URL: "/api/v1/staged-exports/a/b/c.pdf"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/staged-exports/a/b/c.pdf" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestDirSinkWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := DirSink{Dir: dir}

	if err := sink.Deliver(context.Background(), sample, Staged{}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	data, err := os.ReadFile(sink.Path(sample.Name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestStagedCopyServedInlineUntilRevoked(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := local.New(t.TempDir())
	stager := ObjectStager{Store: store, URLBase: "/api/v1/staged-exports"}

	router := gin.New()
	(&StagedHandler{Store: store}).RegisterRoutes(router.Group("/api/v1/staged-exports"))

	staged, err := stager.Stage(context.Background(), sample)
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if !strings.HasPrefix(staged.URL, "/api/v1/staged-exports/") || !strings.HasSuffix(staged.URL, "/"+sample.Name) {
		t.Fatalf("unexpected url %q", staged.URL)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, staged.URL, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected Content-Type %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "inline") {
		t.Fatalf("expected inline disposition, got %q", cd)
	}

	if err := stager.Revoke(context.Background(), staged); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, staged.URL, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after revoke, got %d", w.Code)
	}
}

func TestStagedHandlerRejectsMalformedPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	(&StagedHandler{Store: local.New(t.TempDir())}).RegisterRoutes(router.Group("/s"))

	for _, p := range []string{
		"/s/not-a-hash/6f1c2a34-5b8e-4f3e-9d3a-0a1b2c3d4e5f/a.pdf",
		"/s/" + strings.Repeat("a", 64) + "/not-a-uuid/a.pdf",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", p, w.Code)
		}
	}
}
