package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/repository"
	"github.com/caffeinecoffee/storefront/internal/repository/catalog"
	"github.com/caffeinecoffee/storefront/internal/repository/memory"
)

func newTestRepos(t *testing.T) *repository.Repositories {
	menu, err := catalog.Default()
	require.NoError(t, err)

	return &repository.Repositories{
		Carts:    memory.NewSlotStore(),
		Sessions: memory.NewSlotStore(),
		Catalog:  menu,
	}
}

func TestSessionManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	manager := NewSessionManager(newTestRepos(t), &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	alice := manager.Get(ctx, "alice")
	bob := manager.Get(ctx, "bob")
	require.NoError(t, alice.Cart.AddToCart(ctx, productA, 1))

	assert.Same(t, alice, manager.Get(ctx, "alice"))
	assert.Equal(t, int64(20000), alice.Cart.CalculateTotal())
	assert.True(t, bob.Cart.IsEmpty())
}

func TestSessionManager_EndThenRehydrate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	manager := NewSessionManager(repos, &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	first := manager.Get(ctx, "alice")
	require.NoError(t, first.Cart.AddToCart(ctx, productB, 3))
	manager.End("alice")

	second := manager.Get(ctx, "alice")
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Cart.Items(), second.Cart.Items())

	_, err := repos.Carts.Get(ctx, "caffeineCart:alice")
	assert.NoError(t, err)
}

func TestSessionManager_EvictIdleThenRehydrate(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	manager := NewSessionManager(repos, &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	clock := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return clock }

	idle := manager.Get(ctx, "alice")
	require.NoError(t, idle.Cart.AddToCart(ctx, productB, 2))
	for i := 0; i < 100; i++ {
		manager.Get(ctx, fmt.Sprintf("drive-by-%d", i))
	}

	clock = clock.Add(20 * time.Minute)
	active := manager.Get(ctx, "bob")
	assert.Equal(t, 102, manager.Len())

	clock = clock.Add(15 * time.Minute)
	assert.Equal(t, 101, manager.EvictIdle(30*time.Minute))
	assert.Equal(t, 1, manager.Len())
	assert.Same(t, active, manager.Get(ctx, "bob"))

	again := manager.Get(ctx, "alice")
	assert.NotSame(t, idle, again)
	assert.Equal(t, int64(20000), again.Cart.CalculateTotal())
}

func TestSessionManager_EvictIdleKeepsSubmitting(t *testing.T) {
	ctx := context.Background()
	orders := &mockOrderCreator{orderNumber: "ORD-1", block: make(chan struct{})}
	manager := NewSessionManager(newTestRepos(t), orders, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	session := manager.Get(ctx, "alice")
	require.NoError(t, session.Cart.AddToCart(ctx, productA, 1))
	session.Checkout.SetForm(validForm)

	done := make(chan error, 1)
	go func() {
		_, err := session.Checkout.Submit(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool {
		return session.Checkout.State() == domain.CheckoutStateSubmitting
	}, time.Second, time.Millisecond)

	manager.now = func() time.Time { return time.Now().Add(time.Hour) }
	assert.Equal(t, 0, manager.EvictIdle(time.Minute))

	close(orders.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, manager.EvictIdle(time.Minute))
}

func TestSessionManager_SweepStopsWithContext(t *testing.T) {
	manager := NewSessionManager(newTestRepos(t), &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		manager.Sweep(ctx, time.Millisecond)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}
}

// slowSlot blocks reads of one key until release is closed
type slowSlot struct {
	*memory.SlotStore
	key     string
	release chan struct{}
}

func (s *slowSlot) Get(ctx context.Context, key string) ([]byte, error) {
	if key == s.key {
		<-s.release
	}
	return s.SlotStore.Get(ctx, key)
}

func TestSessionManager_SlowRehydrateDoesNotBlockOthers(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	slow := &slowSlot{SlotStore: memory.NewSlotStore(), key: "caffeineCart:slow", release: make(chan struct{})}
	repos.Carts = slow
	manager := NewSessionManager(repos, &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	got := make(chan *Session, 1)
	go func() { got <- manager.Get(ctx, "slow") }()

	fast := make(chan *Session, 1)
	go func() { fast <- manager.Get(ctx, "fast") }()

	select {
	case s := <-fast:
		assert.Equal(t, "fast", s.ID)
	case <-time.After(time.Second):
		t.Fatal("new session waited on another session's rehydration")
	}

	close(slow.release)
	s := <-got
	assert.Same(t, s, manager.Get(ctx, "slow"))
}

func TestSessionManager_ConcurrentGetSharesSession(t *testing.T) {
	ctx := context.Background()
	manager := NewSessionManager(newTestRepos(t), &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	const n = 20
	results := make(chan *Session, n)
	for i := 0; i < n; i++ {
		go func() { results <- manager.Get(ctx, "alice") }()
	}

	first := <-results
	for i := 1; i < n; i++ {
		assert.Same(t, first, <-results)
	}
	assert.Equal(t, 1, manager.Len())
}

func TestSessionManager_ReceiptConsumedOnce(t *testing.T) {
	ctx := context.Background()
	manager := NewSessionManager(newTestRepos(t), &mockOrderCreator{}, "caffeineCart", time.Minute, zaptest.NewLogger(t))

	receipt := &domain.ReceiptData{
		Order: domain.Order{
			CustomerName:  "Budi",
			Items:         []domain.CartItem{{ID: "a", Name: "Espresso", Price: 20000, Quantity: 1}},
			Subtotal:      20000,
			Shipping:      domain.ShippingFee,
			Total:         35000,
			PaymentMethod: domain.PaymentMethodDANA,
		},
		OrderNumber: "ORD-9",
		OrderDate:   time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, manager.StoreReceipt(ctx, "alice", receipt))

	_, err := manager.ConsumeReceipt(ctx, "bob")
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)

	got, err := manager.ConsumeReceipt(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, receipt.OrderNumber, got.OrderNumber)
	assert.True(t, receipt.OrderDate.Equal(got.OrderDate))
	assert.Equal(t, receipt.Items, got.Items)

	_, err = manager.ConsumeReceipt(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}

func TestProductService_AddProductToCart(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	cart, _ := newTestCart(t)
	products := NewProductService(repos, zaptest.NewLogger(t))

	p, err := products.AddProductToCart(ctx, cart, "espresso", 2)
	require.NoError(t, err)
	assert.Equal(t, "Espresso", p.Name)
	assert.Equal(t, int64(36000), cart.CalculateTotal())

	_, err = products.AddProductToCart(ctx, cart, "tea", 1)
	assert.Error(t, err)

	_, err = products.AddProductToCart(ctx, cart, "espresso", 0)
	assert.Error(t, err)
	assert.Equal(t, 2, cart.ItemCount())
}
