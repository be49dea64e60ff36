package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/server/respond"
)

// registerSessionRoutes attaches the /session endpoint, which echoes the
// caller's session id or mints a new one for clients starting a review.
func registerSessionRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", sessionHandler)
}

func sessionHandler(c *gin.Context) {
	id := middleware.SessionIDFromContext(c)
	created := false
	if id == "" {
		id = middleware.NewSessionID()
		created = true
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId": id,
		"created":   created,
		"header":    middleware.SessionHeader,
	})
}
