package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/api/handlers"
	"github.com/caffeinecoffee/storefront/internal/api/middleware"
	"github.com/caffeinecoffee/storefront/internal/config"
	"github.com/caffeinecoffee/storefront/internal/repository"
	"github.com/caffeinecoffee/storefront/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, sessions *service.SessionManager, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/products", handlers.HandleListProducts(repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(repos, logger))

		// Shopper routes
		shopperRoutes := v1.Group("")
		shopperRoutes.Use(middleware.SessionMiddleware(cfg.Environment == "production"))
		{
			shopperRoutes.GET("/cart", handlers.HandleGetCart(sessions))
			shopperRoutes.POST("/cart/items", handlers.HandleAddCartItem(sessions, repos, logger))
			shopperRoutes.PATCH("/cart/items/:id", handlers.HandleUpdateCartItem(sessions))
			shopperRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(sessions))
			shopperRoutes.DELETE("/cart", handlers.HandleClearCart(sessions))

			shopperRoutes.GET("/checkout", handlers.HandleGetCheckout(sessions))
			shopperRoutes.POST("/checkout", handlers.HandleSubmitCheckout(sessions, logger))

			shopperRoutes.GET("/receipt", handlers.HandleGetReceipt(sessions, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		}
		if id, ok := middleware.GetSessionID(c); ok {
			fields = append(fields, zap.String("session_id", id))
		}
		logger.Info("HTTP request", fields...)
	}
}
