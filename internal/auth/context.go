package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/signup-site/internal/session"
)

const sessionKey = "session"

// GetSession returns the visitor session resolved by SessionRequired, or nil.
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}
