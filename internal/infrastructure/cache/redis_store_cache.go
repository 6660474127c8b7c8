// Package cache implementa el caché de tiendas y la clave de tienda actual
// sobre Redis. El TTL del listado es configurable; la tienda actual no expira.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/netxel/inventario-api/internal/application/store"
	"github.com/netxel/inventario-api/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

var _ store.Cache = (*RedisStoreCache)(nil)

// RedisStoreCache implementación del puerto store.Cache sobre Redis.
type RedisStoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStoreCache construye el caché con el cliente y el TTL del listado.
func NewRedisStoreCache(client *redis.Client, ttl time.Duration) *RedisStoreCache {
	return &RedisStoreCache{client: client, ttl: ttl}
}

func storesKey(userID string) string {
	return fmt.Sprintf("stores:%s", userID)
}

func currentStoreKey(userID string) string {
	return fmt.Sprintf("current_store:%s", userID)
}

// GetStores devuelve el listado cacheado y si hubo hit. Un valor corrupto se
// trata como miss.
func (c *RedisStoreCache) GetStores(ctx context.Context, userID string) ([]*entity.Store, bool, error) {
	raw, err := c.client.Get(ctx, storesKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get stores cache: %w", err)
	}
	var stores []*entity.Store
	if err := json.Unmarshal(raw, &stores); err != nil {
		_ = c.client.Del(ctx, storesKey(userID)).Err()
		return nil, false, nil
	}
	return stores, true, nil
}

// SetStores guarda el listado con TTL.
func (c *RedisStoreCache) SetStores(ctx context.Context, userID string, stores []*entity.Store) error {
	raw, err := json.Marshal(stores)
	if err != nil {
		return fmt.Errorf("marshal stores: %w", err)
	}
	if err := c.client.Set(ctx, storesKey(userID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set stores cache: %w", err)
	}
	return nil
}

// Invalidate borra el listado cacheado del usuario.
func (c *RedisStoreCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, storesKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate stores cache: %w", err)
	}
	return nil
}

// CurrentStoreID devuelve la tienda actual guardada ("" si no hay).
func (c *RedisStoreCache) CurrentStoreID(ctx context.Context, userID string) (string, error) {
	id, err := c.client.Get(ctx, currentStoreKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get current store: %w", err)
	}
	return id, nil
}

// SetCurrentStoreID guarda la tienda actual de la sesión (sin expiración).
func (c *RedisStoreCache) SetCurrentStoreID(ctx context.Context, userID, storeID string) error {
	if err := c.client.Set(ctx, currentStoreKey(userID), storeID, 0).Err(); err != nil {
		return fmt.Errorf("set current store: %w", err)
	}
	return nil
}

// ClearCurrentStore limpia la selección de tienda.
func (c *RedisStoreCache) ClearCurrentStore(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, currentStoreKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear current store: %w", err)
	}
	return nil
}
