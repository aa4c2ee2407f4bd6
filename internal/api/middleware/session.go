package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionHeader carries the session id for API clients
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session id for browsers
	SessionCookie = "storefront_session"

	sessionContextKey = "session_id"
)

// SessionMiddleware resolves the shopper session from the header or cookie.
// Missing or malformed ids get a fresh one, echoed back in both places.
func SessionMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(SessionCookie)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(sessionContextKey, id)
		c.Header(SessionHeader, id)
		c.SetCookie(SessionCookie, id, 0, "/", "", secureCookie, true)

		c.Next()
	}
}

// GetSessionID returns the session id resolved by SessionMiddleware
func GetSessionID(c *gin.Context) (string, bool) {
	id := c.GetString(sessionContextKey)
	return id, id != ""
}
