package domain

import "time"

// ShippingFee is the flat shipping surcharge in minor currency units
const ShippingFee int64 = 15000

// MaxQuantity is the most units a single cart line may hold
const MaxQuantity = 99

// Product represents a catalog product. Prices are in minor units.
type Product struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Price       int64  `json:"price" yaml:"price"`
	Image       string `json:"image" yaml:"image"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
}

// CartItem represents one line of the cart.
// The JSON form is what gets written to the cart slot.
type CartItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image"`
	Quantity int    `json:"quantity"`
}

// LineTotal returns price times quantity
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Subtotal sums the line totals of items
func Subtotal(items []CartItem) int64 {
	var total int64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// Order is the payload sent to the order-creation service
type Order struct {
	CustomerName  string        `json:"customerName"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Items         []CartItem    `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	Shipping      int64         `json:"shipping"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// ReceiptData is a server-confirmed order ready for display
type ReceiptData struct {
	Order
	OrderNumber string    `json:"orderNumber"`
	OrderDate   time.Time `json:"orderDate"`
}
