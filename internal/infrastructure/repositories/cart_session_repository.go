package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/checkoutsvc/domain"
)

// CartSessionRepositoryImpl implements domain.CartSessionRepository using
// Redis. Carts expire automatically; every save refreshes the TTL so an
// active buyer never loses the cart mid-flow.
type CartSessionRepositoryImpl struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCartSessionRepository creates a new cart session repository
func NewCartSessionRepository(client *redis.Client, ttl time.Duration) domain.CartSessionRepository {
	return &CartSessionRepositoryImpl{
		client: client,
		prefix: "cart:",
		ttl:    ttl,
	}
}

// Create implements domain.CartSessionRepository
func (r *CartSessionRepositoryImpl) Create(ctx context.Context, cart *domain.CartSession) error {
	return r.write(ctx, cart)
}

// FindByID implements domain.CartSessionRepository
func (r *CartSessionRepositoryImpl) FindByID(ctx context.Context, cartID string) (*domain.CartSession, error) {
	data, err := r.client.Get(ctx, r.prefix+cartID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}

	var cart domain.CartSession
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart session: %w", err)
	}
	return &cart, nil
}

// Save implements domain.CartSessionRepository
func (r *CartSessionRepositoryImpl) Save(ctx context.Context, cart *domain.CartSession) error {
	return r.write(ctx, cart)
}

// Delete implements domain.CartSessionRepository
func (r *CartSessionRepositoryImpl) Delete(ctx context.Context, cartID string) error {
	return r.client.Del(ctx, r.prefix+cartID).Err()
}

func (r *CartSessionRepositoryImpl) write(ctx context.Context, cart *domain.CartSession) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart session: %w", err)
	}
	return r.client.Set(ctx, r.prefix+cart.ID, data, r.ttl).Err()
}
