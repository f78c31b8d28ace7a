package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/pulsefilter/config"
)

// redisOpener is an indirection for unit testing.
var redisOpener = InitRedis

// InitRedis connects to the Redis used for shared rate-limit counters.
// An empty cfg.Redis.Addr returns a nil client and no error.
func InitRedis(cfg config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	return rdb, nil
}
