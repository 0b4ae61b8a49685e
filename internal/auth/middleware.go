package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rednote/backend/internal/util"
)

// bearerToken pulls the token out of the Authorization header, with or
// without the "Bearer " prefix.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// RequireAuth rejects requests without a valid bearer token and puts the
// actor id into the request context.
func (s *Service) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, util.Envelope{Code: "UNAUTHORIZED", Msg: "no token provided"})
			c.Abort()
			return
		}

		actorID, err := s.ResolveActor(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, util.Envelope{Code: "UNAUTHORIZED", Msg: "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(util.UserIDKey, actorID)
		c.Next()
	}
}

// OptionalAuth sets the actor id when a valid token is present and lets
// anonymous requests through untouched; viewer-relative fields then
// degrade to their defaults.
func (s *Service) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if actorID, err := s.ResolveActor(token); err == nil {
				c.Set(util.UserIDKey, actorID)
			}
		}
		c.Next()
	}
}
