package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key the auth middleware sets.
const UserIDKey = "user_id"

// GetUserIDFromContext extracts the authenticated user id from the Gin
// context. If the user is not authenticated, it responds 401 and returns
// ok=false; callers just return.
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, Envelope{Code: "UNAUTHORIZED", Msg: "user not authenticated"})
		return 0, false
	}
	id, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusInternalServerError, Envelope{Code: "INTERNAL_ERROR", Msg: "invalid user id in context"})
		return 0, false
	}
	return id, true
}

// ViewerIDFromContext returns the user id for optionally-authenticated
// reads. Zero means anonymous; viewer-relative fields degrade to their
// defaults and no like-state lookup happens.
func ViewerIDFromContext(c *gin.Context) uint {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0
	}
	if id, ok := userID.(uint); ok {
		return id
	}
	return 0
}
