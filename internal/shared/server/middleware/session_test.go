package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session())
	router.GET("/open", func(c *gin.Context) {
		c.String(http.StatusOK, SessionIDFromContext(c))
	})
	router.GET("/scoped", RequireSession(), func(c *gin.Context) {
		c.String(http.StatusOK, SessionIDFromContext(c))
	})
	router.OPTIONS("/scoped", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestSessionAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newSessionRouter()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/scoped", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestSessionHeaderHandling(t *testing.T) {
	validID := NewSessionID()
	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantBody string
	}{
		{name: "anonymous open route", path: "/open", wantCode: http.StatusOK, wantBody: ""},
		{name: "session stored", path: "/scoped", header: validID, wantCode: http.StatusOK, wantBody: validID},
		{name: "missing session", path: "/scoped", wantCode: http.StatusBadRequest},
		{name: "malformed session", path: "/open", header: "bad id!", wantCode: http.StatusBadRequest},
		{name: "too short", path: "/open", header: "abc", wantCode: http.StatusBadRequest},
	}

	router := newSessionRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(SessionHeader, tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, resp.Code, resp.Body.String())
			}
			if tt.wantCode == http.StatusOK && resp.Body.String() != tt.wantBody {
				t.Fatalf("expected body %q, got %q", tt.wantBody, resp.Body.String())
			}
		})
	}
}

func TestSessionStopsChainOnOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := false
	router.Use(Session())
	router.Use(func(c *gin.Context) {
		reached = true
		c.Next()
	})
	router.OPTIONS("/scoped", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodOptions, "/scoped", nil))
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if reached {
		t.Fatalf("expected handlers after Session to be skipped")
	}
}
