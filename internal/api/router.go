package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/api/handlers"
	"github.com/perfumeshop/salesapi/internal/api/middleware"
	"github.com/perfumeshop/salesapi/internal/config"
	"github.com/perfumeshop/salesapi/internal/repository"
	"github.com/perfumeshop/salesapi/internal/service"
)

// Services bundles the service layer handed to the router
type Services struct {
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs Services, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
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
		// Public storefront routes
		carts := v1.Group("/carts")
		{
			carts.POST("", handlers.HandleCreateCart(svcs.Carts, logger))
			carts.GET("/:cartId", handlers.HandleGetCart(svcs.Carts, logger))
			carts.DELETE("/:cartId", handlers.HandleClearCart(svcs.Carts, logger))
			carts.POST("/:cartId/items", handlers.HandleAddItem(svcs.Carts, logger))
			carts.PATCH("/:cartId/items/:productId", handlers.HandleUpdateItem(svcs.Carts, logger))
			carts.DELETE("/:cartId/items/:productId", handlers.HandleRemoveItem(svcs.Carts, logger))
		}

		v1.POST("/checkout", handlers.HandleCheckout(svcs.Checkout, svcs.Carts, logger))
		v1.POST("/checkout/whatsapp", handlers.HandleCheckoutPreview(svcs.Checkout, logger))

		v1.GET("/products", handlers.HandleListProducts(repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
		v1.GET("/search", handlers.HandleSearchPerfumes(repos, logger))
		v1.GET("/vendors/:id", handlers.HandleGetVendor(repos, logger))

		// Vendor routes (vendor identity resolved by the auth gateway)
		orders := v1.Group("/orders")
		orders.Use(middleware.VendorMiddleware())
		{
			orders.GET("", handlers.HandleListOrders(svcs.Orders, logger))
			orders.GET("/:id", handlers.HandleGetOrder(svcs.Orders, logger))
			orders.PATCH("/:id", handlers.HandleUpdateOrderCustomer(svcs.Orders, logger))
			orders.POST("/:id/status", handlers.HandleUpdateOrderStatus(svcs.Orders, logger))
			orders.POST("/:id/message", handlers.HandleRegenerateMessage(svcs.Checkout, svcs.Orders, logger))
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
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
