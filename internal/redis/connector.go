package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/streetpass/streetpass/internal/config"
	"github.com/streetpass/streetpass/internal/logger"
)

// New creates a redis client and verifies connectivity, retrying with
// exponential backoff until the configured connect timeout is exhausted.
// The durable store cannot operate without redis, so the caller should
// fail fast on error.
func New(cfg *config.Config, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUser,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  cfg.RedisDialTimeout,
		ReadTimeout:  cfg.RedisReadTimeout,
		WriteTimeout: cfg.RedisWriteTimeout,
		PoolSize:     cfg.RedisPoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RedisConnectTimeout)
	defer cancel()

	log.Info("connecting to redis",
		logger.String("addr", cfg.RedisAddr),
		logger.Duration("timeout", cfg.RedisConnectTimeout))

	attempt := 0
	wait := cfg.RedisRetryInterval

	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, cfg.RedisPingTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.String("addr", cfg.RedisAddr),
					logger.Int("attempts", attempt))
			} else {
				log.Info("connected to redis", logger.String("addr", cfg.RedisAddr))
			}
			return client, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable, giving up",
				logger.String("addr", cfg.RedisAddr),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return nil, fmt.Errorf("redis unavailable at %s after %d attempts (timeout %v): %w",
				cfg.RedisAddr, attempt, cfg.RedisConnectTimeout, err)

		case <-timer.C:
			if attempt <= cfg.RedisWarnThreshold {
				log.Warn("redis connection failed, retrying",
					logger.String("addr", cfg.RedisAddr),
					logger.Int("attempt", attempt),
					logger.Duration("next_retry_in", wait),
					logger.Error(err))
			} else {
				log.Error("redis still unavailable",
					logger.String("addr", cfg.RedisAddr),
					logger.Int("attempt", attempt),
					logger.Duration("next_retry_in", wait),
					logger.Error(err))
			}
			wait *= 2
			if wait > cfg.RedisMaxWait {
				wait = cfg.RedisMaxWait
			}
		}
	}
}
