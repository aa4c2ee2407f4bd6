package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/domain"
	receiptview "github.com/caffeinecoffee/storefront/internal/receipt"
	"github.com/caffeinecoffee/storefront/internal/service"
	"github.com/caffeinecoffee/storefront/pkg/errors"
)

// CheckoutResponse represents the checkout page
type CheckoutResponse struct {
	service.CheckoutSummary
	Form service.CheckoutForm `json:"form"`
}

// HandleGetCheckout handles GET /v1/checkout
func HandleGetCheckout(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{
			CheckoutSummary: session.Checkout.Summary(),
			Form:            session.Checkout.Form(),
		})
	}
}

// HandleSubmitCheckout handles POST /v1/checkout
func HandleSubmitCheckout(sessions *service.SessionManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok {
			return
		}

		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}

		flow := session.Checkout
		if flow.State() == domain.CheckoutStateSubmitting {
			c.JSON(http.StatusConflict, gin.H{"error": "order is already being submitted"})
			return
		}

		flow.SetForm(service.CheckoutForm{
			Name:          req.Name,
			Email:         req.Email,
			Phone:         req.Phone,
			Address:       req.Address,
			PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		})

		receipt, err := flow.Submit(c.Request.Context())
		if err != nil {
			var validation *errors.ErrValidation
			var transition *errors.ErrInvalidStateTransition
			switch {
			case stderrors.As(err, &validation):
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":  errors.UserMessage(err),
					"fields": validation.Fields,
				})
			case stderrors.Is(err, errors.ErrEmptyCart):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": errors.UserMessage(err)})
			case stderrors.As(err, &transition):
				c.JSON(http.StatusConflict, gin.H{"error": "order is already being submitted"})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": flow.LastError()})
			}
			return
		}

		if err := sessions.StoreReceipt(c.Request.Context(), session.ID, receipt); err != nil {
			// the order is placed; only the receipt page hand-off is lost
			logger.Error("Failed to store receipt",
				zap.String("session_id", session.ID),
				zap.String("order_number", receipt.OrderNumber),
				zap.Error(err),
			)
		}

		c.JSON(http.StatusOK, gin.H{
			"status":       "success",
			"order_number": receipt.OrderNumber,
			"receipt":      receiptview.Build(*receipt),
		})
	}
}
