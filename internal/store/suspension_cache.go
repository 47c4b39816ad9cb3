package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const suspensionKeyPrefix = "moderation:suspended:"

// SuspensionCache mirrors the suspended flag into Redis so the submission
// pipeline can gate suspended users without a database read. The key carries
// a TTL equal to the suspension window; Postgres stays authoritative and the
// expiry sweep clears the key when it lifts a suspension early.
type SuspensionCache struct {
	rdb *redis.Client
}

func NewSuspensionCache(rdb *redis.Client) *SuspensionCache {
	return &SuspensionCache{rdb: rdb}
}

func (c *SuspensionCache) MarkSuspended(ctx context.Context, userID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, suspensionKeyPrefix+userID, "1", ttl).Err()
}

func (c *SuspensionCache) Clear(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, suspensionKeyPrefix+userID).Err()
}

func (c *SuspensionCache) IsSuspended(ctx context.Context, userID string) (bool, error) {
	_, err := c.rdb.Get(ctx, suspensionKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
