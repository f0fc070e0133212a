package respond

import (
	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Private writes a JSON response that carries student data. Shared caches
// and the browser are told not to keep it.
func Private(c *gin.Context, status int, payload any) {
	h := c.Writer.Header()
	h.Set("Cache-Control", "no-store")
	h.Set("Pragma", "no-cache")
	h.Add("Vary", "Authorization")
	c.JSON(status, payload)
}
