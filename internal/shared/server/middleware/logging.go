package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/telemetry"
)

// Probe routes are polled constantly and would drown export logs.
var quietRoutes = map[string]struct{}{
	"/api/v1/health":  {},
	"/api/v1/metrics": {},
}

// Logging emits one structured line per request. Staged-export paths are
// logged as their route template so download tokens never reach the logs.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		status := c.Writer.Status()
		if _, quiet := quietRoutes[route]; quiet && status < http.StatusInternalServerError {
			return
		}

		fields := map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"path":           route,
			"status":         status,
			"duration_ms":    float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":        UserIDFromContext(c),
			"target_user_id": c.Param("userId"),
			"export_kind":    c.GetString("exportKind"),
			"export_format":  c.GetString("exportFormat"),
			"bytes":          c.Writer.Size(),
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
