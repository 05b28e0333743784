package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"k9vision/api/internal/models"
)

// RequireRoles rejects authenticated callers whose role is not in the
// allowed set. Missing claims are a 401 (Auth did not run or failed);
// a wrong role is a 403.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[string(role)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, ok := roleSet[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
