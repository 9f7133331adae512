package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeshop/salesapi/pkg/errors"
)

// respondError maps the typed business errors to transport responses.
// Anything outside the closed set is treated as an internal failure and
// answered generically, without leaking persistence detail.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		notFound     *errors.ErrNotFound
		invalidInput *errors.ErrInvalidInput
		conflict     *errors.ErrConflict
		noStock      *errors.ErrInsufficientStock
		badState     *errors.ErrInvalidStateTransition
		forbidden    *errors.ErrForbidden
	)

	switch {
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case stderrors.As(err, &invalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidInput.Error()})
	case stderrors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case stderrors.As(err, &noStock):
		c.JSON(http.StatusConflict, gin.H{
			"error":        noStock.Error(),
			"product_id":   noStock.ProductID,
			"product_name": noStock.ProductName,
			"requested":    noStock.Requested,
			"available":    noStock.Available,
		})
	case stderrors.As(err, &badState):
		c.JSON(http.StatusConflict, gin.H{"error": badState.Error()})
	case stderrors.As(err, &forbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": forbidden.Error()})
	default:
		logger.Error("Internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
