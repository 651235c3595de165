package app

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/guttosm/packflow/config"
	"github.com/guttosm/packflow/internal/cache"
	"github.com/guttosm/packflow/internal/logger"
)

const redisPingTimeout = 2 * time.Second

// InitRedis returns the payment cache and a function that releases it.
// Without REDIS_ADDR the cache is a no-op. An unreachable server is logged
// but kept, since cache errors never fail a request.
func InitRedis(cfg config.Config) (cache.PaymentCache, func()) {
	if cfg.Redis.Addr == "" {
		logger.L().Info().Msg("REDIS_ADDR not set, payment cache disabled")
		return cache.NewNoop(), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.L().Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, continuing without warm cache")
	}

	return cache.NewRedis(client, cfg.Redis.TTL), func() { _ = client.Close() }
}

// redisOpener is an indirection used by InitializeApp; overridden in tests.
var redisOpener = InitRedis
