package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/metrics"
	"advisory-backend/internal/shared/server/respond"
	"advisory-backend/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 envelope. A panic inside an export
// counts as a failed export. Once a download body has started the status
// line is already on the wire, so the connection is only logged and
// aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			kind := c.GetString("exportKind")
			telemetry.Error("panic", map[string]any{
				"request_id":       RequestIDFromContext(c),
				"user_id":          UserIDFromContext(c),
				"export_kind":      kind,
				"error":            rec,
				"stack":            string(debug.Stack()),
				"path":             c.FullPath(),
				"method":           c.Request.Method,
				"response_started": c.Writer.Written(),
			})
			if kind != "" {
				metrics.IncExportFailed(metrics.ReasonOther)
			}
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
