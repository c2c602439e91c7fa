package utils

import (
	"context"
	"fmt"
	"time"

	"recicleaqui/config"

	"github.com/go-redis/redis/v8"
)

// NewCacheClient connects to the Redis cache configured in cfg and pings it.
func NewCacheClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (cache) at %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
