package service

// AddCartItemRequest is the payload for adding a product to the cart.
// Quantity defaults to 1 when omitted.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateCartItemRequest sets an absolute quantity; zero or less removes the line
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=99"`
}

// CheckoutRequest carries the checkout form. Completeness is checked by the
// checkout flow so every missing field can be reported at once.
type CheckoutRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}
