package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pulsefilter/config"
	"github.com/guttosm/pulsefilter/internal/api"
	"github.com/guttosm/pulsefilter/internal/middleware"
	"github.com/guttosm/pulsefilter/internal/service"
	"github.com/guttosm/pulsefilter/internal/storage"
)

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the output filter engine (built-in presets plus FILTER_PRESETS_FILE).
//   - Connects to PostgreSQL and, when REDIS_ADDR is set, to Redis.
//   - Wires repository, service and HTTP handler layers.
//   - Picks the rate-limit store: Redis when available, process memory otherwise.
//   - Registers health and readiness probes for every dependency.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	engine, err := NewFilterEngine(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize filter engine: %w", err)
	}

	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisOpener(cfg)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	repo := storage.NewTradesRepository(db)
	svc := service.NewMarketService(repo)
	handler := api.NewHandler(svc, engine, cfg.Filter.MaxBodyBytes)

	opts := api.RouterOptions{
		RateStore:  middleware.NewMemoryStore(),
		RateLimit:  cfg.RateLimit.Requests,
		RateWindow: cfg.RateLimit.Window,
	}
	checks := map[string]api.Pinger{"postgres": db.PingContext}
	if rdb != nil {
		opts.RateStore = middleware.NewRedisStore(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	router := api.NewRouter(handler, opts)
	api.NewHealthHandler(checks).Register(router)

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = db.Close()
	}

	return router, cleanup, nil
}
