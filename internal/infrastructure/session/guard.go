// Package session keeps the per-quote checkout markers in Redis: the
// reserved order id and the shopper redirect signal.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// Checkout sessions are short-lived; stale markers expire on their own.
const sessionTTL = 2 * time.Hour

type Guard struct {
	client *redis.Client
	logger *slog.Logger
}

func NewGuard(client *redis.Client, logger *slog.Logger) *Guard {
	return &Guard{client: client, logger: logger}
}

func (g *Guard) ReserveOrderID(ctx context.Context, quoteID, incrementID string) error {
	if err := g.client.Set(ctx, reservedKey(quoteID), incrementID, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to reserve order id: %w", err)
	}
	return nil
}

func (g *Guard) ResetReservedOrderID(ctx context.Context, quoteID string) error {
	if err := g.client.Del(ctx, reservedKey(quoteID)).Err(); err != nil {
		return fmt.Errorf("failed to reset reserved order id: %w", err)
	}
	g.logger.Debug("reserved order id reset", "quote_id", quoteID)
	return nil
}

func (g *Guard) SetRedirectPath(ctx context.Context, quoteID, path string) error {
	if err := g.client.Set(ctx, redirectKey(quoteID), path, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to set redirect path: %w", err)
	}
	return nil
}

func reservedKey(quoteID string) string {
	return "checkout:reserved-order-id:" + quoteID
}

func redirectKey(quoteID string) string {
	return "checkout:redirect-path:" + quoteID
}
