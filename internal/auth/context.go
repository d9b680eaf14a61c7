package auth

import "github.com/gin-gonic/gin"

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetActor returns the authenticated actor stored by AuthRequired.
func GetActor(c *gin.Context) (Actor, bool) {
	id := GetUserID(c)
	if id == "" {
		return Actor{}, false
	}
	role, _ := c.Get(userRoleKey)
	r, ok := role.(Role)
	if !ok {
		return Actor{}, false
	}
	return Actor{ID: id, Role: r}, true
}

// SetActor stores an actor in the context. Handler tests use it in place of AuthRequired.
func SetActor(c *gin.Context, a Actor) {
	c.Set(userIDKey, a.ID)
	c.Set(userRoleKey, a.Role)
}
