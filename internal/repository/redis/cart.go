// Package redis persists carts in Redis, one slot per anonymous cart ID.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salamchy/furniture/internal/domain"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load reads the cart slot. An absent slot, an unparsable payload, or an
// unreachable store all yield an empty cart; the in-memory state for the
// request stays authoritative, so Load never fails the caller. Degraded
// reads are logged.
func (r *CartRepository) Load(ctx context.Context, cartID string) *domain.Cart {
	key := keyPrefix + cartID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.WarnContext(ctx, "cart slot unreachable, starting empty",
				slog.String("cart_id", cartID),
				slog.String("error", err.Error()),
			)
		}
		return &domain.Cart{}
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		r.logger.WarnContext(ctx, "cart slot unparsable, starting empty",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
		return &domain.Cart{}
	}

	return &cart
}

// Save overwrites the cart slot with the full item list, refreshing the TTL.
func (r *CartRepository) Save(ctx context.Context, cartID string, cart *domain.Cart) error {
	key := keyPrefix + cartID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Clear removes the cart slot entirely rather than writing an empty list.
func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	key := keyPrefix + cartID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
