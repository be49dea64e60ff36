package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-contacts/internal/services/health"
	"cv-contacts/internal/shared/config"
	"cv-contacts/internal/shared/metrics"
	"cv-contacts/internal/shared/server/middleware"
	"cv-contacts/internal/shared/server/respond"
)

// RouteRegistrar is implemented by every package handler.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Deps are the pieces the router needs from bootstrap.
type Deps struct {
	Config     config.Config
	Health     *health.Service
	Limiter    *middleware.RateLimiter
	Registrars []RouteRegistrar
}

var uploadRoutes = map[string]struct{}{
	"/api/v1/scans":           {},
	"/api/v1/uploads/presign": {},
	"/api/v1/batch/documents": {},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(),
	)

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(rateLimitConfig(deps.Config, deps.Limiter)))
	api.GET("/health", func(c *gin.Context) {
		report := healthSvc.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	registerSessionRoutes(api)
	for _, reg := range deps.Registrars {
		if reg != nil {
			reg.RegisterRoutes(api)
		}
	}

	return r
}

func rateLimitConfig(cfg config.Config, limiter *middleware.RateLimiter) middleware.RateLimitConfig {
	burst := cfg.RateLimitBurst
	uploadBurst := burst / 4
	if uploadBurst < 1 {
		uploadBurst = 1
	}
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":                       {Rate: cfg.RateLimitRPS, Burst: burst},
			middleware.UploadRateLimitGroup: {Rate: cfg.RateLimitRPS / 2, Burst: uploadBurst},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			if _, ok := uploadRoutes[c.FullPath()]; ok {
				return middleware.UploadRateLimitGroup
			}
			return ""
		},
		Limiter: limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
