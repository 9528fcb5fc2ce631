package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ConsultTrack-Intelligence/internal/config"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/ConsultTrack-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
)

// RouterConfig holds every dependency the route table needs.  Nil handlers
// leave their routes unregistered.
type RouterConfig struct {
	HealthHandler    *handlers.HealthHandler
	DashboardHandler *handlers.DashboardHandler
	DeadlineHandler  *handlers.DeadlineHandler
	ClientHandler    *handlers.ClientHandler
	ChatHandler      *handlers.ChatHandler

	Server  config.ServerConfig
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// ChatLimiter overrides the limiter built from Server.ChatRateLimit.
	ChatLimiter middleware.RateLimiter
}

// NewRouter builds the gin engine with the global middleware chain
// Recovery -> RequestID -> Logging -> CORS -> Metrics -> BodyLimit.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()),
		middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins)),
	)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodySize))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Code: errors.ErrCodeNotFound.String(), Message: "route not found"})
	})

	if h := cfg.HealthHandler; h != nil {
		r.GET("/healthz", h.Liveness)
		r.GET("/readyz", h.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	v1 := r.Group("/api/v1", middleware.APIKeyAuth(cfg.Server.APIKey, cfg.Logger))

	if h := cfg.DashboardHandler; h != nil {
		v1.GET("/dashboard", h.Overview)
		v1.GET("/dashboard/summary", h.Summary)
	}

	if h := cfg.DeadlineHandler; h != nil {
		g := v1.Group("/deadlines")
		g.GET("", h.List)
		g.POST("", h.Create)
		g.POST("/complete", h.Complete)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/cycle", h.Cycle)
	}

	if h := cfg.ClientHandler; h != nil {
		g := v1.Group("/clients")
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
	}

	if h := cfg.ChatHandler; h != nil {
		g := v1.Group("/chat")
		g.GET("/messages", h.Messages)
		g.DELETE("/messages", h.Reset)
		g.GET("/quick-queries", h.QuickQueries)
		g.POST("/export", h.Export)

		// Only turns that reach the agent are limited.
		limited := g.Group("")
		if limiter := chatLimiter(cfg); limiter != nil {
			limited.Use(middleware.RateLimit(limiter))
		}
		limited.POST("/messages", h.Send)
		limited.POST("/quick-queries/:id", h.RunQuickQuery)
	}

	return r
}

func chatLimiter(cfg RouterConfig) middleware.RateLimiter {
	if cfg.ChatLimiter != nil {
		return cfg.ChatLimiter
	}
	if cfg.Server.ChatRateLimit <= 0 {
		return nil
	}
	return middleware.NewTokenBucketLimiter(cfg.Server.ChatRateLimit)
}

//Personal.AI order the ending
