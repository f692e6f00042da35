// Package cache implements the recurring-contract cache invalidator on
// Redis. The cache itself is populated by the storefront code path;
// this side only removes entries after a modification round trip.
package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "recurring-contracts:"

type Invalidator struct {
	client *redis.Client
	logger *slog.Logger
}

func NewInvalidator(client *redis.Client, logger *slog.Logger) *Invalidator {
	return &Invalidator{client: client, logger: logger}
}

// Remove deletes one cached entry. A miss is not an error.
func (i *Invalidator) Remove(ctx context.Context, key string) error {
	deleted, err := i.client.Del(ctx, keyPrefix+key).Result()
	if err != nil {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	i.logger.Debug("cache entry removed", "key", key, "existed", deleted > 0)
	return nil
}
