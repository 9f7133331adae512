package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/internal/repository"
)

// VendorResponse is the public vendor profile shown on the storefront.
// Email stays internal.
type VendorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StoreName string `json:"store_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	State     string `json:"state"`
}

// HandleGetVendor handles GET /v1/vendors/:id
func HandleGetVendor(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor ID"})
			return
		}

		vendor, err := repos.Vendors.GetByID(c.Request.Context(), vendorID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, VendorResponse{
			ID:        vendor.ID.String(),
			Name:      vendor.Name,
			StoreName: vendor.StoreName,
			Phone:     vendor.Phone,
			City:      vendor.City,
			State:     vendor.State,
		})
	}
}
