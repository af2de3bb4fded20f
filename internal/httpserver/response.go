package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

// respondError maps domain errors onto HTTP responses. Anything not in
// the taxonomy is a 500 with no detail leaked.
func respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vErr.Fields})
		return
	}

	var pErr *domain.PaymentProviderError
	if errors.As(err, &pErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable, please retry"})
		return
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	case errors.Is(err, domain.ErrNoValidItems):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid items in cart"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
