package memory

import (
	"context"
	"sync"
	"time"

	"github.com/caffeinecoffee/storefront/internal/repository"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// SlotStore keeps slots in process memory. Used for tests and for
// session hand-off values when no shared medium is configured.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string]entry
	now   func() time.Time
}

// NewSlotStore creates an empty in-memory slot store
func NewSlotStore() *SlotStore {
	return &SlotStore{
		slots: make(map[string]entry),
		now:   time.Now,
	}
}

func (s *SlotStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.slots[key]
	s.mu.RUnlock()

	if !ok {
		return nil, repository.ErrSlotEmpty
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.slots, key)
		s.mu.Unlock()
		return nil, repository.ErrSlotEmpty
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

func (s *SlotStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{value: make([]byte, len(value))}
	copy(e.value, value)
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.slots[key] = e
	s.mu.Unlock()
	return nil
}

func (s *SlotStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()
	return nil
}

func (s *SlotStore) Close() error {
	return nil
}
