package httpserver

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/payment"
)

const signatureHeader = "Payment-Signature"

// Webhook payloads are small; anything bigger than this is not ours.
const maxWebhookBody = 1 << 20

// webhookHandler verifies, parses and reconciles provider events. After
// the signature is accepted the response is always 200: internal
// reconciliation failures are logged, never bounced back to the
// provider, which would retry the delivery forever.
func webhookHandler(logger zerolog.Logger, deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		if deps.WebhookSecret == "" {
			// Accepting unsigned events is for local development only
			// and must be switched on explicitly.
			if !deps.AllowUnverifiedWebhooks {
				logger.Error().Msg("webhook: no secret configured and unverified events not allowed")
				c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification unavailable"})
				return
			}
			logger.Warn().Msg("webhook: accepting unverified event (dev mode)")
		} else {
			sig := c.GetHeader(signatureHeader)
			if err := payment.VerifySignature(body, sig, deps.WebhookSecret, payment.DefaultTolerance, time.Now()); err != nil {
				logger.Warn().Err(err).Msg("webhook: signature rejected")
				c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
				return
			}
		}

		evt, err := payment.ParseEvent(body)
		if err != nil {
			// The signature already passed, so this is an authentic
			// delivery we cannot act on. Rejecting it would make the
			// provider redeliver the same unparseable body forever.
			logger.Warn().Err(err).Msg("webhook: malformed event")
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		if err := deps.Reconciler.HandleEvent(c.Request.Context(), evt); err != nil {
			// The reconciler swallows its own failures, but keep the
			// acknowledgement unconditional even if that ever changes.
			logger.Error().Err(err).Str("event_id", evt.ID).Msg("webhook: reconciliation error")
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
