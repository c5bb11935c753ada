package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
)

// AdminMiddleware rejects non-admin actors. Must run after
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok || !actor.IsAdmin() {
			response.Forbidden(c, "Admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
