package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/api/middleware"
	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/service"
)

// HandleListOrders handles GET /v1/orders
func HandleListOrders(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.GetVendorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		result, err := orders.ListOrders(c.Request.Context(), vendorID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, len(result))
		for i, order := range result {
			responses[i] = newOrderResponse(order)
		}
		c.JSON(http.StatusOK, gin.H{"orders": responses})
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.GetVendorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := orders.GetOrder(c.Request.Context(), orderID, vendorID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newOrderResponse(order))
	}
}

// UpdateStatusRequest moves an order to a new status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// HandleUpdateOrderStatus handles POST /v1/orders/:id/status
func HandleUpdateOrderStatus(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.GetVendorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := orders.UpdateStatus(c.Request.Context(), orderID, vendorID, domain.OrderStatus(req.Status))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newOrderResponse(order))
	}
}

// UpdateCustomerRequest patches the customer contact fields
type UpdateCustomerRequest struct {
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
}

// HandleUpdateOrderCustomer handles PATCH /v1/orders/:id
func HandleUpdateOrderCustomer(orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.GetVendorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := orders.UpdateCustomer(c.Request.Context(), orderID, vendorID, req.CustomerName, req.CustomerPhone)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newOrderResponse(order))
	}
}

// HandleRegenerateMessage handles POST /v1/orders/:id/message, the
// recovery path when the contact message was not stored at checkout
func HandleRegenerateMessage(checkout *service.CheckoutService, orders *service.OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := middleware.GetVendorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		// Ownership check before touching the order
		if _, err := orders.GetOrder(c.Request.Context(), orderID, vendorID); err != nil {
			respondError(c, logger, err)
			return
		}

		order, err := checkout.RegenerateContactMessage(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newOrderResponse(order))
	}
}
