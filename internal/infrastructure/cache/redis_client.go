package cache

import (
	"context"
	"fmt"

	"github.com/netxel/inventario-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient crea el cliente Redis y verifica la conexión con un ping.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
