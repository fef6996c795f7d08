package lib

import (
	"bookings/src/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ServiceCache holds service snapshots used to enrich reservation listings.
// A miss is (nil, nil).
type ServiceCache interface {
	Get(ctx context.Context, serviceID string) (*models.ServiceSnapshot, error)
	Set(ctx context.Context, serviceID string, snap *models.ServiceSnapshot) error
}

func serviceCacheKey(serviceID string) string {
	return fmt.Sprintf("service:%s:snapshot", serviceID)
}

type RedisServiceCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisServiceCache(rdb redis.Cmdable, ttl time.Duration) *RedisServiceCache {
	return &RedisServiceCache{rdb: rdb, ttl: ttl}
}

func (c *RedisServiceCache) Get(ctx context.Context, serviceID string) (*models.ServiceSnapshot, error) {
	val, err := c.rdb.Get(ctx, serviceCacheKey(serviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.ServiceSnapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("decode cached service %s: %w", serviceID, err)
	}
	return &snap, nil
}

func (c *RedisServiceCache) Set(ctx context.Context, serviceID string, snap *models.ServiceSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, serviceCacheKey(serviceID), string(b), c.ttl).Err()
}

// NoopServiceCache is used when Redis is not configured.
type NoopServiceCache struct{}

func (NoopServiceCache) Get(context.Context, string) (*models.ServiceSnapshot, error) {
	return nil, nil
}

func (NoopServiceCache) Set(context.Context, string, *models.ServiceSnapshot) error {
	return nil
}
