package middleware

import (
	"github.com/gin-gonic/gin"

	"jobmatch-backend/internal/session"
)

const (
	sessionIDKey = "sessionId"

	// SessionCookie carries the session ID across requests from one
	// browsing visit.
	SessionCookie = "jm_session"

	cookieMaxAge = 12 * 60 * 60
)

// Session resolves the caller's session: an existing cookie keeps its ID
// (and is marked active on the manager), otherwise a fresh session is
// issued and set on the response.
func Session(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" {
			id = manager.Issue()
			c.SetCookie(SessionCookie, id, cookieMaxAge, "/", "", false, true)
		} else {
			manager.Touch(id)
		}
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID stored by Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
