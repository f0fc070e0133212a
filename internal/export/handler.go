package export

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/download"
	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/server/middleware"
	"advisory-backend/internal/shared/server/respond"
)

// DefaultMaxAttachmentBytes is the largest file sent directly as an
// attachment; larger files are redirected to their staged copy.
const DefaultMaxAttachmentBytes = 8 << 20

// Handler exposes exports over HTTP.
type Handler struct {
	Service *Service
	// Profiles resolves the caller's role for staff exports.
	Profiles           records.Store
	Stager             download.Stager
	RevokeDelay        time.Duration
	MaxAttachmentBytes int64
	// ScheduleRevoke overrides the revoke timer, e.g. with a RevokeQueue.
	ScheduleRevoke func(delay time.Duration, fn func())
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, profiles records.Store, stager download.Stager, revokeDelay time.Duration) *Handler {
	RegisterValidators()
	return &Handler{
		Service:            svc,
		Profiles:           profiles,
		Stager:             stager,
		RevokeDelay:        revokeDelay,
		MaxAttachmentBytes: DefaultMaxAttachmentBytes,
	}
}

// RegisterRoutes mounts export routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/exports/:kind", h.exportOwn)
	rg.GET("/exports/:kind/preview", h.preview)
	rg.GET("/students/:userId/exports/:kind", h.exportStudent)
}

type kindURI struct {
	Kind string `uri:"kind" binding:"required,doc_kind"`
}

type studentURI struct {
	UserID string `uri:"userId" binding:"required,max=128"`
	Kind   string `uri:"kind" binding:"required,doc_kind"`
}

type formatQuery struct {
	Format string `form:"format" binding:"omitempty,doc_format"`
}

func (h *Handler) exportOwn(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	if callerID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	var uri kindURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document kind", validationDetails(err))
		return
	}
	h.export(c, callerID, uri.Kind)
}

func (h *Handler) exportStudent(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	if callerID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	var uri studentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request", validationDetails(err))
		return
	}
	if err := h.authorize(c.Request.Context(), callerID, uri.UserID); err != nil {
		h.writeError(c, err)
		return
	}
	h.export(c, uri.UserID, uri.Kind)
}

func (h *Handler) preview(c *gin.Context) {
	callerID := middleware.UserIDFromContext(c)
	if callerID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	var uri kindURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid document kind", validationDetails(err))
		return
	}
	kind, _ := ParseKind(uri.Kind)

	doc, bundle, err := h.Service.Document(c.Request.Context(), callerID, kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	names := make(map[Format]string, len(h.Service.Renderers))
	for format, r := range h.Service.Renderers {
		names[format] = FileName(kind, bundle.DisplayName, bundle.GeneratedAt, r.Extension())
	}
	respond.Private(c, http.StatusOK, gin.H{
		"fileNames": names,
		"document":  doc,
	})
}

func (h *Handler) export(c *gin.Context, userID, rawKind string) {
	var q formatQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid format", validationDetails(err))
		return
	}
	kind, _ := ParseKind(rawKind)
	format, _ := ParseFormat(q.Format)
	c.Set("exportKind", string(kind))
	c.Set("exportFormat", string(format))

	trigger := &download.Trigger{
		Primary:     download.AttachmentSink{C: c, MaxBytes: h.MaxAttachmentBytes},
		Fallback:    download.LinkSink{C: c},
		Stager:      h.Stager,
		RevokeDelay: h.RevokeDelay,
		Schedule:    h.ScheduleRevoke,
	}

	if _, _, err := h.Service.Download(c.Request.Context(), userID, kind, format, trigger); err != nil {
		h.writeError(c, err)
	}
}

// authorize lets staff export any student and students export themselves.
func (h *Handler) authorize(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return nil
	}
	if h.Profiles == nil {
		return ErrForbidden
	}
	p, err := h.Profiles.GetProfile(ctx, callerID)
	if err != nil && !errors.Is(err, records.ErrNotFound) {
		return err
	}
	if IsStaff(RoleOf(p)) {
		return nil
	}
	return ErrForbidden
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if c.Writer.Written() {
		c.Abort()
		return
	}
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "No questionnaire response found for this student.", nil)
	case errors.Is(err, ErrExportGenerationFailed):
		respond.Error(c, http.StatusInternalServerError, "export_generation_failed", "Failed to generate the document. Please try again.", nil)
	case errors.Is(err, download.ErrDownloadFailed):
		respond.Error(c, http.StatusBadGateway, "download_failed", download.FailureMessage, nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "Loading the questionnaire took too long. Please try again.", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export document", nil)
	}
}
