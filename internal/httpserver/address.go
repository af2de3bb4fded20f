package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
	addresssvc "github.com/flvvius/ecommerce-jewelry/internal/service/address"
)

func listAddressesHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := svc.List(c.Request.Context(), currentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if addresses == nil {
			addresses = []domain.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func defaultAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		address, err := svc.GetDefault(c.Request.Context(), currentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		// No addresses yet is a normal state for the checkout prefill.
		c.JSON(http.StatusOK, gin.H{"address": address})
	}
}

func createAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		created, err := svc.Create(c.Request.Context(), currentIdentity(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		updated, err := svc.Update(c.Request.Context(), c.Param("id"), currentIdentity(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func removeAddressHandler(svc AddressService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Remove(c.Request.Context(), c.Param("id"), currentIdentity(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
