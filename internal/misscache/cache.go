package misscache

import (
	"context"
	"fmt"
)

func (c *implCache) IsMissing(ctx context.Context, videoID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, keyPrefix+videoID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func (c *implCache) MarkMissing(ctx context.Context, videoID string) error {
	if err := c.rdb.Set(ctx, keyPrefix+videoID, "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *implCache) Close() error {
	return c.rdb.Close()
}

type nopCache struct{}

func (nopCache) IsMissing(context.Context, string) (bool, error) { return false, nil }
func (nopCache) MarkMissing(context.Context, string) error { return nil }
func (nopCache) Close() error { return nil }
