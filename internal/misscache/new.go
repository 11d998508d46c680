package misscache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "caption-digest:miss:"

type implCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to redisURL. An empty URL yields a cache that remembers nothing.
func New(redisURL string, ttl time.Duration) (Cache, error) {
	if redisURL == "" {
		return nopCache{}, nil
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewWithClient(redis.NewClient(opts), ttl), nil
}

// NewWithClient wraps an existing client. If ttl is not positive it defaults
// to 30 minutes.
func NewWithClient(rdb *redis.Client, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &implCache{rdb: rdb, ttl: ttl}
}
