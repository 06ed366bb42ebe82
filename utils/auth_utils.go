package utils

import (
	"github.com/gin-gonic/gin"
)

// UserClaims is the authenticated identity extracted from a verified
// token. It is the only "current user" state in the system, carried
// on the request context and passed explicitly into domain calls.
type UserClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type contextKey string

const UserContextKey contextKey = "user"

func GetUser(c *gin.Context) *UserClaims {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}
	if userClaims, ok := user.(*UserClaims); ok {
		return userClaims
	}
	return nil
}
