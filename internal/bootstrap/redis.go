package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/go-authgate/kc-connector/internal/config"

	"github.com/redis/go-redis/v9"
)

// initializeRateLimitRedisClient connects the shared store behind the
// POST /user limiter. It returns a nil client when RATE_LIMIT_STORE is not
// redis or rate limiting is off; ulule/limiter's redis driver needs go-redis.
func initializeRateLimitRedisClient(
	ctx context.Context,
	cfg *config.Config,
) (*redis.Client, error) {
	if !cfg.UsesRedis() {
		return nil, nil //nolint:nilnil // memory store or limiter disabled
	}

	opts := &redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.RedisConnTimeout,
	}
	client := redis.NewClient(opts)

	// Fail at startup rather than on the first throttled request.
	pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisConnTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("[RateLimit] Redis store ready for POST /user (addr=%s db=%d)", opts.Addr, opts.DB)
	return client, nil
}
