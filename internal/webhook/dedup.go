// internal/webhook/dedup.go
package webhook

import (
	"context"
	"time"

	"manara-backend/internal/common/database"
)

// DedupStore remembers processed idempotency keys. MarkProcessed returns
// true when the key is fresh, false when it was seen before.
type DedupStore interface {
	MarkProcessed(ctx context.Context, key string) (bool, error)
}

// RedisDedupStore backs dedup on Redis SETNX with a TTL, so keys age out
// instead of accumulating forever.
type RedisDedupStore struct {
	redis *database.RedisClient
	ttl   time.Duration
}

func NewRedisDedupStore(redis *database.RedisClient, ttlSeconds int) *RedisDedupStore {
	return &RedisDedupStore{
		redis: redis,
		ttl:   time.Duration(ttlSeconds) * time.Second,
	}
}

func (s *RedisDedupStore) MarkProcessed(ctx context.Context, key string) (bool, error) {
	return s.redis.SetNX(ctx, "webhook:dedup:"+key, 1, s.ttl)
}
