package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	apperrors "github.com/caffeinecoffee/storefront/pkg/errors"
)

// OrderCreator places an order and returns the server-issued order number
type OrderCreator interface {
	CreateOrder(ctx context.Context, order domain.Order) (string, error)
}

// CheckoutForm holds the contact and shipping fields of the checkout form
type CheckoutForm struct {
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
}

// MissingFields lists the required fields left blank
func (f CheckoutForm) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(f.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(f.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(f.Address) == "" {
		missing = append(missing, "address")
	}
	return missing
}

// CheckoutSummary is what the checkout view shows next to the form
type CheckoutSummary struct {
	Items     []domain.CartItem    `json:"items"`
	Subtotal  int64                `json:"subtotal"`
	Shipping  int64                `json:"shipping"`
	Total     int64                `json:"total"`
	State     domain.CheckoutState `json:"state"`
	LastError string               `json:"lastError,omitempty"`
}

// CheckoutFlow drives one session's checkout: Idle -> Submitting -> Success|Failed.
type CheckoutFlow struct {
	mu          sync.Mutex
	cart        *CartStore
	orders      OrderCreator
	logger      *zap.Logger
	now         func() time.Time
	state       domain.CheckoutState
	form        CheckoutForm
	lastErr     string
	lastReceipt *domain.ReceiptData
}

// NewCheckoutFlow creates a checkout flow over cart
func NewCheckoutFlow(cart *CartStore, orders OrderCreator, logger *zap.Logger) *CheckoutFlow {
	return &CheckoutFlow{
		cart:   cart,
		orders: orders,
		logger: logger,
		now:    time.Now,
		state:  domain.CheckoutStateIdle,
		form:   CheckoutForm{PaymentMethod: domain.DefaultPaymentMethod},
	}
}

func (f *CheckoutFlow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Form returns the last entered form values
func (f *CheckoutFlow) Form() CheckoutForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// LastError returns the message of the last failed submission
func (f *CheckoutFlow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// LastReceipt returns the receipt of the last successful submission
func (f *CheckoutFlow) LastReceipt() *domain.ReceiptData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReceipt
}

// SetForm replaces the form values. An empty payment method means bank transfer.
func (f *CheckoutFlow) SetForm(form CheckoutForm) {
	if form.PaymentMethod == "" {
		form.PaymentMethod = domain.DefaultPaymentMethod
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = form
}

// Reset returns a finished flow to Idle for a new attempt
func (f *CheckoutFlow) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetLocked()
}

func (f *CheckoutFlow) resetLocked() error {
	if f.state == domain.CheckoutStateIdle {
		return nil
	}
	return f.transitionLocked(domain.CheckoutStateIdle)
}

func (f *CheckoutFlow) transitionLocked(to domain.CheckoutState) error {
	if !f.state.CanTransitionTo(to) {
		return &apperrors.ErrInvalidStateTransition{From: f.state, To: to}
	}
	f.state = to
	return nil
}

// Summary computes the totals shown on the checkout form
func (f *CheckoutFlow) Summary() CheckoutSummary {
	items := f.cart.Items()
	subtotal := domain.Subtotal(items)

	f.mu.Lock()
	defer f.mu.Unlock()

	return CheckoutSummary{
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  domain.ShippingFee,
		Total:     subtotal + domain.ShippingFee,
		State:     f.state,
		LastError: f.lastErr,
	}
}

// Submit validates the form and places the order with exactly one
// request. On success the cart is cleared and the receipt returned. On
// failure the cart and form are kept so the shopper can retry.
func (f *CheckoutFlow) Submit(ctx context.Context) (*domain.ReceiptData, error) {
	order, err := f.begin()
	if err != nil {
		return nil, err
	}

	orderNumber, err := f.orders.CreateOrder(ctx, *order)
	if err != nil {
		f.fail(err)
		return nil, err
	}

	receipt := &domain.ReceiptData{
		Order:       *order,
		OrderNumber: orderNumber,
		OrderDate:   f.now(),
	}

	f.mu.Lock()
	if err := f.transitionLocked(domain.CheckoutStateSuccess); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.lastErr = ""
	f.lastReceipt = receipt
	f.mu.Unlock()

	f.cart.RemoveOrdered(ctx, order.Items)

	f.logger.Info("Order placed",
		zap.String("order_number", orderNumber),
		zap.Int64("total", order.Total),
		zap.String("payment_method", string(order.PaymentMethod)),
	)

	return receipt, nil
}

// begin runs the guards and moves to Submitting, returning the order to send
func (f *CheckoutFlow) begin() (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.CheckoutStateSubmitting {
		return nil, &apperrors.ErrInvalidStateTransition{From: f.state, To: domain.CheckoutStateSubmitting}
	}
	if err := f.resetLocked(); err != nil {
		return nil, err
	}

	if missing := f.form.MissingFields(); len(missing) > 0 {
		return nil, &apperrors.ErrValidation{Fields: missing}
	}
	if !f.form.PaymentMethod.IsValid() {
		return nil, &apperrors.ErrValidation{Fields: []string{"payment_method"}}
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, apperrors.ErrEmptyCart
	}

	subtotal := domain.Subtotal(items)
	order := &domain.Order{
		CustomerName:  f.form.Name,
		Email:         f.form.Email,
		Phone:         f.form.Phone,
		Address:       f.form.Address,
		Items:         items,
		Subtotal:      subtotal,
		Shipping:      domain.ShippingFee,
		Total:         subtotal + domain.ShippingFee,
		PaymentMethod: f.form.PaymentMethod,
	}

	if err := f.transitionLocked(domain.CheckoutStateSubmitting); err != nil {
		return nil, err
	}
	return order, nil
}

func (f *CheckoutFlow) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastErr = apperrors.UserMessage(err)
	if tErr := f.transitionLocked(domain.CheckoutStateFailed); tErr != nil {
		f.logger.Error("Unexpected checkout state", zap.Error(tErr))
	}

	var rejected *apperrors.ErrOrderRejected
	if errors.As(err, &rejected) {
		f.logger.Warn("Order rejected", zap.Int("status", rejected.StatusCode), zap.String("reason", rejected.Reason))
		return
	}
	f.logger.Error("Order submission failed", zap.Error(err))
}
