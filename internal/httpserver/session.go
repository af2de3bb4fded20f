package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

const (
	sessionCookieName   = "cart_session"
	sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days, matching the storefront cookie

	customerHeader = "X-Customer-ID"
)

// cartSession returns the opaque cart token from the session cookie,
// minting and setting a fresh one on first contact. The token is a key
// into cart state only, never an identity.
func cartSession(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		return token
	}
	token := uuid.NewString()
	c.SetCookie(sessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
	return token
}

// currentIdentity reads the identity established by the auth layer in
// front of this service. Absence means guest.
func currentIdentity(c *gin.Context) string {
	if id := c.GetHeader(customerHeader); id != "" {
		return id
	}
	return domain.GuestCustomerID
}
