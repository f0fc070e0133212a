package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/export"
	"advisory-backend/internal/records"
	"advisory-backend/internal/shared/server/middleware"
	"advisory-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint. The portal uses it to decide
// which export buttons to show.
func registerMeRoutes(rg *gin.RouterGroup, profiles records.Store) {
	rg.GET("/me", func(c *gin.Context) {
		meHandler(c, profiles)
	})
}

func meHandler(c *gin.Context, profiles records.Store) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"userId": userID,
		"role":   records.RoleStudent,
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	if profiles != nil {
		p, err := profiles.GetProfile(c.Request.Context(), userID)
		switch {
		case err == nil:
			response["role"] = export.RoleOf(p)
			if p.FullName != "" {
				response["name"] = p.FullName
			}
		case !errors.Is(err, records.ErrNotFound):
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
			return
		}
	}

	response["exports"] = gin.H{
		"kinds":          export.Kinds(),
		"formats":        export.Formats(),
		"exportStudents": export.IsStaff(response["role"].(string)),
	}
	respond.Private(c, http.StatusOK, response)
}
