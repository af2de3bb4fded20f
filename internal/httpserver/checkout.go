package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "github.com/flvvius/ecommerce-jewelry/internal/service/checkout"
)

type checkoutRequest struct {
	Items             []checkoutsvc.ItemInput `json:"items" binding:"required"`
	ShippingAddressID string                  `json:"shippingAddressId"`
	// CartID correlates the payment session back to the cart so the
	// webhook can clear it after payment.
	CartID string `json:"cartId"`
}

func checkoutHandler(svc CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
			return
		}

		result, err := svc.Checkout(c.Request.Context(), checkoutsvc.Input{
			CustomerID:        currentIdentity(c),
			CartID:            req.CartID,
			Items:             req.Items,
			ShippingAddressID: req.ShippingAddressID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
