package cache

import (
	"context"
	"errors"
	"time"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/repository"
)

// GuestCartStore conserve les paniers des visiteurs non connectés dans Redis
type GuestCartStore struct {
	store *Store
	ttl   time.Duration
}

func NewGuestCartStore(store *Store) *GuestCartStore {
	return &GuestCartStore{store: store, ttl: GuestCartTTL}
}

func (g *GuestCartStore) Get(ctx context.Context, owner string) (*models.Cart, error) {
	var cart models.Cart
	err := g.store.GetJSON(ctx, GuestCartKey(owner), &cart)
	if errors.Is(err, ErrMiss) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// Save réarme le TTL à chaque écriture
func (g *GuestCartStore) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now
	return g.store.SetJSON(ctx, GuestCartKey(cart.UserID), cart, g.ttl)
}

func (g *GuestCartStore) Delete(ctx context.Context, owner string) error {
	return g.store.Client().Del(ctx, GuestCartKey(owner)).Err()
}
