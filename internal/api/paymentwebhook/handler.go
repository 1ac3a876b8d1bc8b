package paymentwebhook

import (
	"errors"
	"io"
	"net/http"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/service/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxBodyBytes = 65536

// Handle receives provider webhook deliveries. The raw body is read
// before any parsing so the signature covers exactly the bytes sent.
// Verification failure returns 400 without touching the database;
// processing failures return 500 so the provider retries.
func Handle(svc *payment.Service, provider payment.Provider, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := readBody(c, maxBodyBytes)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
			return
		}

		event, err := provider.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			log.Warn("webhook rejected", zap.Error(err))
			c.JSON(apperr.StatusCode(err), gin.H{"error": "Signature verification failed"})
			return
		}

		if err := svc.HandleProviderEvent(event); err != nil {
			// NotFound on a completed checkout means our record is missing;
			// 500 keeps the provider retrying until it appears or ops steps in.
			log.Error("webhook processing failed",
				zap.String("kind", event.Kind), zap.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, apperr.ErrInvalid) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func readBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
