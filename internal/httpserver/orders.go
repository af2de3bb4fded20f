package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

func listOrdersHandler(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := orders.ListByCustomer(c.Request.Context(), currentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if result == nil {
			result = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": result})
	}
}

func getOrderHandler(orders OrderReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := orders.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if order.CustomerID != currentIdentity(c) {
			respondError(c, domain.ErrForbidden)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
