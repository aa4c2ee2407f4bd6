package domain

// PaymentMethod is the payment option picked on the checkout form.
// It is only a label; no payment is processed.
type PaymentMethod string

const (
	PaymentMethodBank  PaymentMethod = "bank"
	PaymentMethodCOD   PaymentMethod = "cod"
	PaymentMethodOVO   PaymentMethod = "ovo"
	PaymentMethodGoPay PaymentMethod = "gopay"
	PaymentMethodDANA  PaymentMethod = "dana"
)

// DefaultPaymentMethod is preselected on a fresh checkout form
const DefaultPaymentMethod = PaymentMethodBank

// IsValid checks if the payment method is one of the known codes
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBank,
		PaymentMethodCOD,
		PaymentMethodOVO,
		PaymentMethodGoPay,
		PaymentMethodDANA:
		return true
	default:
		return false
	}
}

// Label returns the display name of the payment method.
// Unknown codes are returned unchanged.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodBank:
		return "Transfer Bank"
	case PaymentMethodCOD:
		return "Bayar di Tempat (COD)"
	case PaymentMethodOVO:
		return "OVO"
	case PaymentMethodGoPay:
		return "GoPay"
	case PaymentMethodDANA:
		return "DANA"
	default:
		return string(m)
	}
}

// CheckoutState represents the state of a checkout attempt
type CheckoutState string

const (
	CheckoutStateIdle       CheckoutState = "IDLE"
	CheckoutStateSubmitting CheckoutState = "SUBMITTING"
	CheckoutStateSuccess    CheckoutState = "SUCCESS"
	CheckoutStateFailed     CheckoutState = "FAILED"
)

// CanTransitionTo checks if a state transition is valid
func (s CheckoutState) CanTransitionTo(newState CheckoutState) bool {
	switch s {
	case CheckoutStateIdle:
		return newState == CheckoutStateSubmitting
	case CheckoutStateSubmitting:
		return newState == CheckoutStateSuccess ||
			newState == CheckoutStateFailed
	case CheckoutStateSuccess, CheckoutStateFailed:
		return newState == CheckoutStateIdle // new attempt
	default:
		return false
	}
}
