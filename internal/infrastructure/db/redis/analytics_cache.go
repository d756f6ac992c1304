package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

const analyticsKey = "crm:analytics:summary"

// AnalyticsCache keeps the latest dashboard summary for a short TTL.
type AnalyticsCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewAnalyticsCache wraps client. A non-positive ttl disables writes.
func NewAnalyticsCache(client redis.Cmdable, ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{client: client, ttl: ttl}
}

// Get returns (nil, nil) when nothing is cached.
func (c *AnalyticsCache) Get(ctx context.Context) (*domain.Analytics, error) {
	raw, err := c.client.Get(ctx, analyticsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("analytics cache get: %w", err)
	}

	var a domain.Analytics
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("analytics cache decode: %w", err)
	}
	return &a, nil
}

func (c *AnalyticsCache) Set(ctx context.Context, a *domain.Analytics) error {
	if c.ttl <= 0 || a == nil {
		return nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("analytics cache encode: %w", err)
	}
	if err := c.client.Set(ctx, analyticsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("analytics cache set: %w", err)
	}
	return nil
}
