package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/repository"
)

// ReceiptSlot is the session slot the last receipt is handed off through
const ReceiptSlot = "lastReceipt"

// Session bundles the cart and checkout flow of one shopper
type Session struct {
	ID       string
	Cart     *CartStore
	Checkout *CheckoutFlow

	// guarded by SessionManager.mu
	lastSeen time.Time
}

// SessionManager creates sessions on first use and keeps them until they
// are ended or sit idle too long.
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	repos      *repository.Repositories
	orders     OrderCreator
	cartKey    string
	receiptTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewSessionManager creates a session manager. cartKey is the fixed
// slot name carts are stored under.
func NewSessionManager(repos *repository.Repositories, orders OrderCreator, cartKey string, receiptTTL time.Duration, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]*Session),
		repos:      repos,
		orders:     orders,
		cartKey:    cartKey,
		receiptTTL: receiptTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the session for id, rehydrating its cart on first use
func (m *SessionManager) Get(ctx context.Context, id string) *Session {
	if s := m.touch(id); s != nil {
		return s
	}

	// rehydration does slot I/O, so it runs without mu
	logger := m.logger.With(zap.String("session_id", id))
	cart := NewCartStore(ctx, m.repos.Carts, sessionKey(m.cartKey, id), logger)
	fresh := &Session{
		ID:       id,
		Cart:     cart,
		Checkout: NewCheckoutFlow(cart, m.orders, logger),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
		return s
	}
	fresh.lastSeen = m.now()
	m.sessions[id] = fresh
	return fresh
}

func (m *SessionManager) touch(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.lastSeen = m.now()
	return s
}

// End tears the session down. Its persisted cart stays in the slot.
func (m *SessionManager) End(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictIdle ends every session not used within idle and returns how many
// were ended. Sessions with an order in flight are kept.
func (m *SessionManager) EvictIdle(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-idle)
	evicted := 0
	for id, s := range m.sessions {
		if !s.lastSeen.Before(cutoff) {
			continue
		}
		if s.Checkout.State() == domain.CheckoutStateSubmitting {
			continue
		}
		delete(m.sessions, id)
		evicted++
	}
	return evicted
}

// Sweep evicts idle sessions periodically until ctx is done
func (m *SessionManager) Sweep(ctx context.Context, idle time.Duration) {
	interval := idle / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(idle); n > 0 {
				m.logger.Debug("Evicted idle sessions", zap.Int("count", n), zap.Int("live", m.Len()))
			}
		}
	}
}

// StoreReceipt hands receipt off to the receipt view of session id
func (m *SessionManager) StoreReceipt(ctx context.Context, id string, receipt *domain.ReceiptData) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("marshal receipt failed: %w", err)
	}
	return repository.SetMaybeExpiring(ctx, m.repos.Sessions, sessionKey(ReceiptSlot, id), data, m.receiptTTL)
}

// ConsumeReceipt returns the pending receipt of session id and removes it.
// It returns repository.ErrSlotEmpty when there is none.
func (m *SessionManager) ConsumeReceipt(ctx context.Context, id string) (*domain.ReceiptData, error) {
	key := sessionKey(ReceiptSlot, id)

	data, err := m.repos.Sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := m.repos.Sessions.Delete(ctx, key); err != nil {
		m.logger.Warn("Failed to delete consumed receipt", zap.String("session_id", id), zap.Error(err))
	}

	var receipt domain.ReceiptData
	if err := json.Unmarshal(data, &receipt); err != nil {
		m.logger.Warn("Discarding unreadable receipt", zap.String("session_id", id), zap.Error(err))
		return nil, repository.ErrSlotEmpty
	}
	return &receipt, nil
}

func sessionKey(name, id string) string {
	return name + ":" + id
}
