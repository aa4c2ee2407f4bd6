package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/repository"
	apperrors "github.com/caffeinecoffee/storefront/pkg/errors"
)

// CartStore owns the cart line items of one session. Every mutation
// rewrites the whole list into its slot.
type CartStore struct {
	mu     sync.Mutex
	items  []domain.CartItem
	slot   repository.SlotStore
	key    string
	logger *zap.Logger
}

// NewCartStore creates a cart store and rehydrates it from the slot under key.
// A missing, unreadable or corrupt slot yields an empty cart.
func NewCartStore(ctx context.Context, slot repository.SlotStore, key string, logger *zap.Logger) *CartStore {
	s := &CartStore{
		slot:   slot,
		key:    key,
		logger: logger.With(zap.String("cart_key", key)),
	}
	s.items = s.load(ctx)
	return s
}

func (s *CartStore) load(ctx context.Context) []domain.CartItem {
	data, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, repository.ErrSlotEmpty) {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to read cart slot", zap.Error(err))
		return nil
	}

	items, err := decodeCart(data)
	if err != nil {
		s.logger.Warn("Discarding stored cart", zap.Error(err))
		if err := s.slot.Delete(ctx, s.key); err != nil {
			s.logger.Error("Failed to remove stored cart", zap.Error(err))
		}
		return nil
	}

	return items
}

func decodeCart(data []byte) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("cart item without id")
		}
		if item.Quantity < 1 || item.Quantity > domain.MaxQuantity {
			return nil, fmt.Errorf("cart item %s has quantity %d", item.ID, item.Quantity)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("cart item %s has a negative price", item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("duplicate cart item %s", item.ID)
		}
		seen[item.ID] = struct{}{}
	}

	return items, nil
}

// persist writes the list. Must be called with mu held.
func (s *CartStore) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("Failed to marshal cart", zap.Error(err))
		return
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		s.logger.Error("Failed to persist cart", zap.Error(err))
	}
}

// AddToCart adds quantity of product, merging with an existing line.
// A non-positive quantity, or one that takes the line past MaxQuantity,
// is rejected and leaves the cart untouched.
func (s *CartStore) AddToCart(ctx context.Context, product domain.Product, quantity int) error {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return &apperrors.ErrInvalidQuantity{Quantity: quantity}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.CartItem, 0, len(s.items)+1)
	found := false
	for _, item := range s.items {
		if item.ID == product.ID {
			if item.Quantity+quantity > domain.MaxQuantity {
				return &apperrors.ErrInvalidQuantity{Quantity: item.Quantity + quantity}
			}
			item.Quantity += quantity
			found = true
		}
		next = append(next, item)
	}
	if !found {
		next = append(next, domain.CartItem{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Image:    product.Image,
			Quantity: quantity,
		})
	}

	s.items = next
	s.persist(ctx)
	return nil
}

// RemoveFromCart drops the line for productID if present
func (s *CartStore) RemoveFromCart(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(ctx, productID)
}

func (s *CartStore) removeLocked(ctx context.Context, productID string) {
	next := make([]domain.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != productID {
			next = append(next, item)
		}
	}

	s.items = next
	s.persist(ctx)
}

// UpdateQuantity sets the quantity of a line. Zero or less removes it;
// more than MaxQuantity is rejected.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity > domain.MaxQuantity {
		return &apperrors.ErrInvalidQuantity{Quantity: quantity}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(ctx, productID)
		return nil
	}

	next := make([]domain.CartItem, len(s.items))
	for i, item := range s.items {
		if item.ID == productID {
			item.Quantity = quantity
		}
		next[i] = item
	}

	s.items = next
	s.persist(ctx)
	return nil
}

// ClearCart empties the cart
func (s *CartStore) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CartItem{}
	s.persist(ctx)
}

// RemoveOrdered takes the lines and quantities of a placed order out of
// the cart. Anything added after the order snapshot stays.
func (s *CartStore) RemoveOrdered(ctx context.Context, ordered []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placed := make(map[string]int, len(ordered))
	for _, item := range ordered {
		placed[item.ID] += item.Quantity
	}

	next := make([]domain.CartItem, 0, len(s.items))
	for _, item := range s.items {
		item.Quantity -= placed[item.ID]
		if item.Quantity > 0 {
			next = append(next, item)
		}
	}

	s.items = next
	s.persist(ctx)
}

// CalculateTotal returns the sum of price times quantity over all lines
func (s *CartStore) CalculateTotal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Subtotal(s.items)
}

// Items returns a copy of the current lines in insertion order
func (s *CartStore) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount returns the number of units across all lines
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items) == 0
}
