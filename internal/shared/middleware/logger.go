package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logger emits one line per request. When auth ran first the acting
// user's id is included, which is what ties a checkout or an owner
// change in the logs back to a person.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		event := log.Info().
			Str(requestIDKey, c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency_ms", time.Since(start)).
			Str("ip", c.ClientIP())

		if actor, ok := ActorFromContext(c); ok {
			event = event.Str("actor_id", actor.ID().String())
		}

		event.Msg("request handled")
	}
}
