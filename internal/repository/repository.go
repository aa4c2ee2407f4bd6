package repository

import (
	"context"
	"errors"
	"time"

	"github.com/caffeinecoffee/storefront/internal/domain"
)

// ErrSlotEmpty is returned when nothing is stored under a key
var ErrSlotEmpty = errors.New("slot empty")

// SlotStore is a key-value store holding serialized client state,
// one value per key, like a browser storage area.
type SlotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ExpiringSlotStore is a SlotStore that can drop values after a TTL
type ExpiringSlotStore interface {
	SlotStore
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Catalog supplies read-only products
type Catalog interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// Repositories groups the stores used by the storefront
type Repositories struct {
	// Carts holds the persisted cart of every session.
	Carts SlotStore
	// Sessions holds short-lived hand-off values such as the last receipt.
	Sessions SlotStore
	Catalog  Catalog
}

// Close closes the slot stores. Carts and Sessions may share one store.
func (r *Repositories) Close() error {
	var errs []error
	if r.Carts != nil {
		errs = append(errs, r.Carts.Close())
	}
	if r.Sessions != nil && r.Sessions != r.Carts {
		errs = append(errs, r.Sessions.Close())
	}
	return errors.Join(errs...)
}

// SetMaybeExpiring writes value with ttl when the store supports expiry.
func SetMaybeExpiring(ctx context.Context, store SlotStore, key string, value []byte, ttl time.Duration) error {
	if exp, ok := store.(ExpiringSlotStore); ok && ttl > 0 {
		return exp.SetWithTTL(ctx, key, value, ttl)
	}
	return store.Set(ctx, key, value)
}
