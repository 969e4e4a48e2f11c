package middleware

import (
	"net/http"
	"slices"

	"introcall/models"
	"introcall/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole lets the request through only for the listed roles. It must run
// after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Insufficient authorization", "")
			return
		}
		if !slices.Contains(roles, u.Role) {
			utils.JSONError(c, http.StatusForbidden, "Forbidden", "role "+u.Role+" may not access this resource")
			return
		}
		c.Next()
	}
}

// RequireAdmin allows both admin roles.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin, models.RoleEnterpriseAdmin)
}
