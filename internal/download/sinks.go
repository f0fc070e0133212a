package download

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/util"
)

var (
	errResponseStarted = errors.New("response already started")
	errTooLarge        = errors.New("file exceeds attachment limit")
	errNotStaged       = errors.New("no staged copy")
)

// AttachmentSink writes the file as an attachment on the current response.
// Files larger than MaxBytes are refused so the fallback can stream them from
// the staged copy.
type AttachmentSink struct {
	C        *gin.Context
	MaxBytes int64
}

func (s AttachmentSink) Deliver(ctx context.Context, f File, _ Staged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.C.Writer.Written() {
		return errResponseStarted
	}
	if s.MaxBytes > 0 && int64(len(f.Data)) > s.MaxBytes {
		return fmt.Errorf("%w: %d bytes", errTooLarge, len(f.Data))
	}
	s.C.Header("Content-Disposition", contentDisposition("attachment", f.Name))
	s.C.Header("Content-Length", strconv.Itoa(len(f.Data)))
	s.C.Header("Cache-Control", "no-store")
	s.C.Data(http.StatusOK, f.ContentType, f.Data)
	return nil
}

// LinkSink redirects the client to the staged copy, which is served inline.
type LinkSink struct {
	C *gin.Context
}

func (s LinkSink) Deliver(ctx context.Context, f File, staged Staged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if staged.URL == "" {
		return errNotStaged
	}
	if s.C.Writer.Written() {
		return errResponseStarted
	}
	s.C.Header("Cache-Control", "no-store")
	s.C.Redirect(http.StatusSeeOther, staged.URL)
	return nil
}

// DirSink writes the file into a directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(ctx context.Context, f File, _ Staged) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := util.SafeFileName(f.Name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(s.Path(name), f.Data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Path is where Deliver puts a file called name.
func (s DirSink) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// contentDisposition encodes non-ASCII names per RFC 2231.
func contentDisposition(disposition, name string) string {
	if v := mime.FormatMediaType(disposition, map[string]string{"filename": name}); v != "" {
		return v
	}
	return disposition
}
