package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/download"
	"advisory-backend/internal/export"
	"advisory-backend/internal/records"
	"advisory-backend/internal/services/health"
	"advisory-backend/internal/shared/config"
	"advisory-backend/internal/shared/metrics"
	"advisory-backend/internal/shared/server/middleware"
	"advisory-backend/internal/shared/server/respond"
)

// StagedExportsPath is where staged export copies are served.
const StagedExportsPath = "/api/v1/staged-exports"

// RouterDeps are the handlers NewRouter mounts.
type RouterDeps struct {
	Config        config.Config
	Profiles      records.Store
	ExportHandler *export.Handler
	StagedHandler *download.StagedHandler
	Health        *health.Service
	// Limiter is shared across routers in tests; nil creates a fresh one.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: middleware.ExportGroupFor,
			Limiter:  deps.Limiter,
			Rules: map[string]middleware.RateLimitRule{
				middleware.ExportRateLimitGroup: middleware.PerMinute(deps.Config.Export.RatePerMinute),
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.Health.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.JSON(c, http.StatusOK, status)
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api, deps.Profiles)

	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.StagedHandler != nil {
		deps.StagedHandler.RegisterRoutes(r.Group(StagedExportsPath))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
