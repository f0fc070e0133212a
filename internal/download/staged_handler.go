package download

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"advisory-backend/document/render"
	"advisory-backend/internal/shared/server/respond"
	"advisory-backend/internal/shared/storage/object"
	"advisory-backend/internal/shared/util"
)

// StagedHandler serves staged copies inline. Access relies on the random
// token in the path; revoked copies answer 404.
type StagedHandler struct {
	Store object.ObjectStore
}

// RegisterRoutes mounts GET /:owner/:token/:name on rg.
func (h *StagedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:owner/:token/:name", h.serve)
}

func (h *StagedHandler) serve(c *gin.Context) {
	owner := c.Param("owner")
	token := c.Param("token")
	name := c.Param("name")

	if !util.IsOwnerKey(owner) {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}
	if _, err := uuid.Parse(token); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}
	if !util.IsSafeFileName(name) {
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
		return
	}

	reader, err := h.Store.Open(c.Request.Context(), stagedKey(owner, token, name))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load export", nil)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeFor(name))
	c.Header("Content-Disposition", contentDisposition("inline", name))
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func contentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".docx":
		return render.ContentTypeDOCX
	case ".pdf":
		return render.ContentTypePDF
	case ".xlsx":
		return render.ContentTypeXLSX
	default:
		return "application/octet-stream"
	}
}
