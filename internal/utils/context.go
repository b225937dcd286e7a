// internal/utils/context.go
package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Request-context keys set by the auth middleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
)

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok
}

// CurrentUserID parses the authenticated user's id out of the request
// context. The second return is false when the request is unauthenticated or
// the stored id is malformed.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func IsAdminFromContext(c *gin.Context) bool {
	value, exists := c.Get(ContextRole)
	if !exists {
		return false
	}
	role, ok := value.(string)
	return ok && role == "admin"
}
