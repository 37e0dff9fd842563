package redisadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"phonedeck/contexts/identity-access/authorization-service/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authz_role:"

// Cache is the RoleCache adapter backed by redis. Expiry is delegated to
// redis key TTLs, so Get ignores the caller-supplied clock.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, email string, _ time.Time) (ports.RoleRecord, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return ports.RoleRecord{}, false, nil
	}
	if err != nil {
		return ports.RoleRecord{}, false, err
	}

	var record ports.RoleRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return ports.RoleRecord{}, false, err
	}
	return record, true, nil
}

func (c *Cache) Set(ctx context.Context, email string, record ports.RoleRecord, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(email), payload, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, email string) error {
	return c.client.Del(ctx, cacheKey(email)).Err()
}

func cacheKey(email string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(email))
}
