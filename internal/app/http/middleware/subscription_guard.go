package middleware

import (
	"net/http"
	"time"

	"moviestream-app/database"
	"moviestream-app/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

// RequireActiveSubscription gates premium content behind an active,
// unexpired subscription.
func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		var sub subscriptions.Subscription
		if err := database.DB.
			Where("user_id = ? AND is_active = ?", userID, true).
			First(&sub).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Subscription not found or expired",
			})
			return
		}

		if sub.EndDate == nil || time.Now().After(*sub.EndDate) {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error": "Your subscription has expired",
			})
			return
		}

		c.Next()
	}
}
