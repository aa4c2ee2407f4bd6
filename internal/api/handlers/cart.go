package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/api/middleware"
	"github.com/caffeinecoffee/storefront/internal/domain"
	"github.com/caffeinecoffee/storefront/internal/repository"
	"github.com/caffeinecoffee/storefront/internal/service"
	"github.com/caffeinecoffee/storefront/pkg/errors"
)

// CartResponse represents the cart panel
type CartResponse struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     int64             `json:"total"`
}

func cartResponse(cart *service.CartStore) CartResponse {
	return CartResponse{
		Items:     cart.Items(),
		ItemCount: cart.ItemCount(),
		Total:     cart.CalculateTotal(),
	}
}

// sessionFromContext returns the session of the request, writing a 401 if there is none
func sessionFromContext(c *gin.Context, sessions *service.SessionManager) (*service.Session, bool) {
	id, ok := middleware.GetSessionID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return nil, false
	}
	return sessions.Get(c.Request.Context(), id), true
}

// cartLocked writes a 409 while the session's order is being placed
func cartLocked(c *gin.Context, session *service.Session) bool {
	if session.Checkout.State() != domain.CheckoutStateSubmitting {
		return false
	}
	c.JSON(http.StatusConflict, gin.H{"error": "order is being submitted, cart is locked"})
	return true
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, cartResponse(session.Cart))
	}
}

// HandleAddCartItem handles POST /v1/cart/items
func HandleAddCartItem(sessions *service.SessionManager, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok || cartLocked(c, session) {
			return
		}

		var req service.AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		productService := service.NewProductService(repos, logger)
		product, err := productService.AddProductToCart(c.Request.Context(), session.Cart, req.ProductID, quantity)
		if err != nil {
			switch err.(type) {
			case *errors.ErrNotFound:
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			case *errors.ErrInvalidQuantity:
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			default:
				logger.Error("Failed to add to cart", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": product.Name + " has been added to your cart",
			"cart":    cartResponse(session.Cart),
		})
	}
}

// HandleUpdateCartItem handles PATCH /v1/cart/items/:id
func HandleUpdateCartItem(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok || cartLocked(c, session) {
			return
		}

		var req service.UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := session.Cart.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cartResponse(session.Cart))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id
func HandleRemoveCartItem(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok || cartLocked(c, session) {
			return
		}

		session.Cart.RemoveFromCart(c.Request.Context(), c.Param("id"))
		c.JSON(http.StatusOK, cartResponse(session.Cart))
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(sessions *service.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := sessionFromContext(c, sessions)
		if !ok || cartLocked(c, session) {
			return
		}

		session.Cart.ClearCart(c.Request.Context())
		c.JSON(http.StatusOK, cartResponse(session.Cart))
	}
}
