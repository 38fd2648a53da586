package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps resolved rates in Redis in front of the Postgres store. A nil
// Cache is valid and behaves as always-miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(from, to string, day time.Time) string {
	return fmt.Sprintf("fx:%s:%s:%s", from, to, day.Format("2006-01-02"))
}

// Get loads a cached rate, reporting a miss through the second return.
func (c *Cache) Get(ctx context.Context, from, to string, day time.Time) (Rate, bool, error) {
	if c == nil || c.client == nil {
		return Rate{}, false, nil
	}
	payload, err := c.client.Get(ctx, cacheKey(from, to, day)).Bytes()
	if err == redis.Nil {
		return Rate{}, false, nil
	}
	if err != nil {
		return Rate{}, false, fmt.Errorf("exchange: cache get: %w", err)
	}
	var rate Rate
	if err := json.Unmarshal(payload, &rate); err != nil {
		return Rate{}, false, fmt.Errorf("exchange: cache decode: %w", err)
	}
	return rate, true, nil
}

// Set stores a rate with the configured TTL.
func (c *Cache) Set(ctx context.Context, rate Rate) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(rate)
	if err != nil {
		return fmt.Errorf("exchange: cache encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(rate.From, rate.To, rate.Date), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("exchange: cache set: %w", err)
	}
	return nil
}
