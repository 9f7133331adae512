package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const vendorContextKey = "vendor_id"

// VendorMiddleware resolves the acting vendor from the X-Vendor-ID
// header. Authentication itself is owned by the upstream gateway; by
// the time a request reaches this service the header is trusted.
func VendorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Vendor-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing vendor identity"})
			return
		}

		vendorID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid vendor identity"})
			return
		}

		c.Set(vendorContextKey, vendorID)
		c.Next()
	}
}

// GetVendorFromContext returns the vendor ID resolved by VendorMiddleware
func GetVendorFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(vendorContextKey)
	if !ok {
		return uuid.Nil, false
	}
	vendorID, ok := v.(uuid.UUID)
	return vendorID, ok
}
