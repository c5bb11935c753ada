package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	userService "library-backend/internal/domains/user/service"
	"library-backend/internal/shared/audit"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

const actorContextKey = "actor"

// AuthMiddleware verifies the bearer token, provisions or loads the
// user behind its subject and stores the resulting Actor on the request
// context. Every authenticated route downstream reads that Actor.
func AuthMiddleware(jwtManager *jwt.Manager, users *userService.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "Invalid user id in token")
			c.Abort()
			return
		}

		actor, err := users.GetOrCreateActor(c.Request.Context(), userService.TokenSubject{
			ID:    userID,
			Name:  claims.Name,
			Email: claims.Email,
			Role:  audit.ParseRole(claims.Role),
		})
		if err != nil {
			logger.Error("failed to resolve actor from token", err)
			response.InternalServerError(c, "Failed to resolve user")
			c.Abort()
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the Actor set by AuthMiddleware.
func ActorFromContext(c *gin.Context) (audit.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return audit.Actor{}, false
	}
	actor, ok := value.(audit.Actor)
	return actor, ok
}
