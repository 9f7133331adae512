package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/domain"
	"github.com/perfumeshop/salesapi/internal/repository"
)

// ProductResponse represents a catalog product
type ProductResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Description   *string `json:"description,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	VendorID      string  `json:"vendor_id"`
}

func newProductResponse(p *domain.Perfume) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Brand:         p.Brand,
		Description:   p.Description,
		PhotoURL:      p.PhotoURL,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		VendorID:      p.VendorID.String(),
	}
}

// HandleListProducts handles GET /v1/products?vendor_id=&name=&page=&limit=
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, err := uuid.Parse(c.Query("vendor_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "vendor_id is required"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

		products, total, err := repos.Products.List(c.Request.Context(), vendorID, repository.ProductFilter{
			Name:  c.Query("name"),
			Page:  page,
			Limit: limit,
		})
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ProductResponse, len(products))
		for i, p := range products {
			responses[i] = newProductResponse(p)
		}
		c.JSON(http.StatusOK, gin.H{
			"products": responses,
			"total":    total,
			"page":     page,
			"limit":    limit,
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Products.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, newProductResponse(product))
	}
}
