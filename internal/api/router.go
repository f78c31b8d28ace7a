package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultRequestTimeout = 10 * time.Second

// RouterOptions tunes the global middleware chain. The zero value disables
// rate limiting and uses a 10s request timeout.
type RouterOptions struct {
	RateStore      middleware.RateStore
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
}

// NewRouter creates a Gin engine with routes configured.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Metrics, Recovery, ErrorHandler, RateLimiter).
//   - Bounds every request context with opts.RequestTimeout.
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()

	if opts.RateStore == nil {
		opts.RateStore = middleware.NewMemoryStore()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		middleware.RateLimiter(opts.RateStore, opts.RateLimit, opts.RateWindow),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), opts.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger & metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/aggregate", handler.GetAggregate)
		v1.GET("/trades", handler.ListTrades)
		v1.GET("/daily", handler.GetDaily)
		v1.GET("/last-trade", handler.GetLastTrade)
		v1.POST("/filter", handler.FilterPayload)
		v1.GET("/presets", handler.ListPresets)
	}

	return router
}
