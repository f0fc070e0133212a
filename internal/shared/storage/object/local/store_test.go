package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"advisory-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	key := "staged/abc/token/CV_Jane_2024-05-01.pdf"

	n, err := store.SaveWithKey(ctx, key, "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", body)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../escape.pdf", "/etc/passwd", ""} {
		if _, err := store.SaveWithKey(ctx, key, "text/plain", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestSweepRemovesOnlyStaleCopies(t *testing.T) {
	base := t.TempDir()
	store := New(base).(*Store)
	ctx := context.Background()

	stale := "staged/owner/token-1/CV_Jane_2024-05-01.pdf"
	fresh := "staged/owner/token-2/SOP_Jane_2024-05-01.docx"
	other := "reports/keep.txt"
	for _, key := range []string{stale, fresh, other} {
		if _, err := store.SaveWithKey(ctx, key, "", strings.NewReader("x")); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(base, filepath.FromSlash(stale)), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	n, err := store.Sweep(ctx, "staged", time.Now().Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one removal, got %d", n)
	}
	if _, err := store.Open(ctx, stale); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("stale copy should be gone, got %v", err)
	}
	for _, key := range []string{fresh, other} {
		rc, err := store.Open(ctx, key)
		if err != nil {
			t.Fatalf("%s should survive: %v", key, err)
		}
		rc.Close()
	}
	if _, err := os.Stat(filepath.Join(base, "staged", "owner", "token-1")); !os.IsNotExist(err) {
		t.Fatalf("empty token dir should be removed, got %v", err)
	}
}

func TestSweepMissingPrefix(t *testing.T) {
	store := New(t.TempDir()).(*Store)
	if n, err := store.Sweep(context.Background(), "staged", time.Now()); err != nil || n != 0 {
		t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
	}
}
