package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole returns a middleware that only allows requests whose
// authenticated user carries one of the given roles. It must run after
// OAuth2Auth so the role claim is already in the context.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get("userRole")
		if !exists {
			respondWithOAuth2Error(c, http.StatusForbidden, "insufficient_scope",
				"No role information available for this token")
			return
		}

		roleStr, ok := role.(string)
		if !ok || !allowed[roleStr] {
			respondWithOAuth2Error(c, http.StatusForbidden, "insufficient_scope",
				"This resource requires elevated privileges")
			return
		}

		c.Next()
	}
}
