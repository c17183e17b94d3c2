package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront_backend/platform/httpkit"
)

// RequireAdmin returns the middleware guarding the admin route group.
func RequireAdmin(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			httpkit.Error(c, http.StatusUnauthorized, "missing bearer token", nil)
			c.Abort()
			return
		}
		if err := service.Verify(token); err != nil {
			httpkit.Error(c, http.StatusUnauthorized, "invalid or expired token", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
