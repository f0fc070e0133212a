package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"advisory-backend/internal/shared/auth"
	"advisory-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
)

// Paths that do not need an identity. Staged exports are reached through an
// unguessable token instead.
var publicPrefixes = []string{
	"/api/v1/health",
	"/api/v1/metrics",
	"/api/v1/staged-exports/",
}

// Auth validates bearer JWTs and stores the identity in context. Outside
// production an X-User-Id header is accepted for local testing.
func Auth(env string) gin.HandlerFunc {
	devHeaders := !isProduction(env)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isPublicPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if header := c.GetHeader("Authorization"); strings.TrimSpace(header) != "" {
			token, ok := bearerToken(header)
			if !ok {
				unauthorized(c, "missing or invalid token", `error="invalid_request"`)
				return
			}
			claims, err := auth.VerifyJWT(token)
			if err != nil {
				unauthorized(c, "missing or invalid token", `error="invalid_token"`)
				return
			}
			c.Set(userIDKey, claims.Subject)
			if claims.Email != "" {
				c.Set(userEmailKey, claims.Email)
			}
			if claims.Name != "" {
				c.Set(userNameKey, claims.Name)
			}
			c.Next()
			return
		}

		if devHeaders {
			if userID := strings.TrimSpace(c.GetHeader("X-User-Id")); userID != "" {
				c.Set(userIDKey, userID)
				c.Next()
				return
			}
		}
		unauthorized(c, "Missing identity", "")
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken extracts the token from an Authorization header. The scheme is
// case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context, message, challengeParams string) {
	challenge := `Bearer realm="advisory-exports"`
	if challengeParams != "" {
		challenge += ", " + challengeParams
	}
	c.Header("WWW-Authenticate", challenge)
	respond.Error(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

func isProduction(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return true
	}
	return false
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
