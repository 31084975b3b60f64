package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/session"
)

const sessionKey = "session"

// Session reads the caller forwarded by the gateway from X-User-Id,
// X-Session-Id and X-User-Roles. A request without X-User-Id is anonymous.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess session.Session
		if raw := c.GetHeader("X-User-Id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			sess.UserID = id
			sess.Roles = session.ParseRoles(c.GetHeader("X-User-Roles"))
		}
		if raw := c.GetHeader("X-Session-Id"); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				sess.SessionID = id
			}
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
		c.Next()
	}
}

// CurrentSession returns the caller stored by Session, or an anonymous one.
func CurrentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Session{}
}

// RequireRoles admits callers holding at least one of roles.
func RequireRoles(roles ...session.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !sess.Has(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden resource"})
			return
		}
		c.Next()
	}
}
