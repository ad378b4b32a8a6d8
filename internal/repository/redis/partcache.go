package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetparts/partsearch/internal/domain"
	apperrors "github.com/fleetparts/partsearch/pkg/errors"
)

const keyPrefix = "part_detail:"

// PartDetailCache caches assembled part detail views in Redis. Lookups fall
// through to the database on a miss; entries expire after the configured TTL.
type PartDetailCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPartDetailCache creates a new Redis-backed part detail cache.
func NewPartDetailCache(client *redis.Client, ttl time.Duration) *PartDetailCache {
	return &PartDetailCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached part detail by part ID.
func (c *PartDetailCache) Get(ctx context.Context, partID string) (*domain.PartDetail, error) {
	key := keyPrefix + partID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("part detail", partID)
		}
		return nil, fmt.Errorf("redis get part detail: %w", err)
	}

	var detail domain.PartDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, fmt.Errorf("unmarshal part detail: %w", err)
	}

	return &detail, nil
}

// Set stores a part detail with the configured TTL.
func (c *PartDetailCache) Set(ctx context.Context, detail *domain.PartDetail) error {
	key := keyPrefix + detail.Part.ID

	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("marshal part detail: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set part detail: %w", err)
	}

	return nil
}

// Invalidate removes a cached part detail by part ID.
func (c *PartDetailCache) Invalidate(ctx context.Context, partID string) error {
	key := keyPrefix + partID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del part detail: %w", err)
	}

	return nil
}
