package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/util"
)

// AttachUserToContext resolves the verified token claims to a local user row
// and attaches it to the context. Anonymous requests pass through with no
// user set.
func AttachUserToContext(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !util.IsAuthenticated(c) {
			c.Set("user", nil)
			c.Next()
			return
		}

		user, err := userService.EnsureUserFromClaims(
			c.GetString("subject"),
			c.GetString("claim_display_name"),
			c.GetString("claim_email"),
			c.GetString("claim_role"),
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireAdmin rejects requests from users without the admin role. It must
// run after AttachUserToContext.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := util.GetUserFromContext(c)
		if err != nil || !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
