package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/service"
	"github.com/perfumeshop/salesapi/pkg/errors"
)

// CheckoutRequest is the order creation payload
type CheckoutRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CartID        string `json:"cart_id" binding:"required"`
}

// CheckoutResponse carries the committed order and its contact link
type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	ContactLink string        `json:"contact_link"`
	// Warning is set when the order committed but storing its contact
	// message failed; the message can be regenerated via the orders API
	Warning string `json:"warning,omitempty"`
}

// HandleCheckout handles POST /v1/checkout. On success the originating
// cart is cleared; a post-commit message storage failure still returns
// the order.
func HandleCheckout(checkout *service.CheckoutService, carts *service.CartService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		order, err := checkout.CreateOrder(c.Request.Context(), req.CustomerName, req.CustomerPhone, req.CartID)

		var msgErr *errors.ErrMessageDelivery
		if err != nil && !stderrors.As(err, &msgErr) {
			respondError(c, logger, err)
			return
		}

		// The order is committed; clearing the cart must not fail the
		// response either
		if _, clearErr := carts.Clear(c.Request.Context(), req.CartID); clearErr != nil {
			logger.Warn("Failed to clear cart after checkout",
				zap.String("cart_id", req.CartID),
				zap.Error(clearErr))
		}

		resp := CheckoutResponse{
			Order:       newOrderResponse(order),
			ContactLink: order.ContactLink,
		}
		if msgErr != nil {
			resp.Warning = "contact message not stored; regenerate it via POST /v1/orders/:id/message"
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// PreviewRequest asks for a contact message without creating an order
type PreviewRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CartID        string `json:"cart_id" binding:"required"`
}

// HandleCheckoutPreview handles POST /v1/checkout/whatsapp: composes
// the message and link from the live cart, reading only
func HandleCheckoutPreview(checkout *service.CheckoutService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		message, link, err := checkout.Preview(c.Request.Context(), req.CustomerName, req.CustomerPhone, req.CartID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      message,
			"contact_link": link,
		})
	}
}

// orderTimeFormat matches the API's timestamp rendering
const orderTimeFormat = "2006-01-02T15:04:05Z07:00"

// OrderResponse represents the order response
type OrderResponse struct {
	ID             string              `json:"id"`
	CustomerName   string              `json:"customer_name"`
	CustomerPhone  string              `json:"customer_phone"`
	Total          float64             `json:"total"`
	Status         domain.OrderStatus  `json:"status"`
	VendorID       string              `json:"vendor_id"`
	ContactMessage string              `json:"contact_message,omitempty"`
	ContactLink    string              `json:"contact_link,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      string              `json:"created_at"`
	UpdatedAt      string              `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Subtotal    float64 `json:"subtotal"`
}

func newOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, it := range order.Items {
		items[i] = OrderItemResponse{
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal(),
		}
	}

	return OrderResponse{
		ID:             order.ID.String(),
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		Total:          order.Total,
		Status:         order.Status,
		VendorID:       order.VendorID.String(),
		ContactMessage: order.ContactMessage,
		ContactLink:    order.ContactLink,
		Items:          items,
		CreatedAt:      order.CreatedAt.Format(orderTimeFormat),
		UpdatedAt:      order.UpdatedAt.Format(orderTimeFormat),
	}
}
