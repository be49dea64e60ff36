package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cv-contacts/internal/shared/server/respond"
)

// SessionHeader carries the caller-owned review session identifier.
const SessionHeader = "X-Session-Id"

const sessionIDKey = "sessionId"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// Session reads the session header and stores it in context. Requests without
// the header continue anonymously; malformed identifiers are rejected.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			c.Next()
			return
		}
		if !sessionIDPattern.MatchString(id) {
			respond.Error(c, http.StatusBadRequest, "invalid_session", "Malformed session id", nil)
			return
		}
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// RequireSession aborts requests that did not carry a session id.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionIDFromContext(c) == "" {
			respond.Error(c, http.StatusBadRequest, "missing_session", "Missing "+SessionHeader+" header", nil)
			return
		}
		c.Next()
	}
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
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

// NewSessionID returns a fresh identifier accepted by Session.
func NewSessionID() string {
	return uuid.NewString()
}
