package usersapi

import (
	"net/http"

	"moviestream-app/config"
	"moviestream-app/database"
	"moviestream-app/internal/app/http/middleware"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func GetCurrentUser(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	resp := MeResponse{
		User: UserDTO{
			ID:         user.ID,
			Email:      user.Email,
			FirstName:  user.FirstName,
			LastName:   user.LastName,
			Phone:      user.Phone,
			Avatar:     user.Avatar,
			Role:       user.Role,
			IsVerified: user.IsVerified,
			Tier:       user.SubscriptionType,
		},
	}

	// Active subscription is optional on this endpoint.
	var sub subscriptions.Subscription
	if err := database.DB.Preload("Plan").
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&sub).Error; err == nil {
		resp.Subscription = BuildSubscriptionDTO(&sub)
	}

	c.JSON(http.StatusOK, resp)
}

func VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	type Token struct {
		UserID uuid.UUID
	}
	var t Token
	if err := database.DB.Table("verification_tokens").Where("token = ?", token).First(&t).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
		return
	}

	if err := database.DB.Model(&users.User{}).Where("id = ?", t.UserID).Update("is_verified", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify user"})
		return
	}

	_ = database.DB.Exec("DELETE FROM verification_tokens WHERE token = ?", token)

	c.Redirect(http.StatusTemporaryRedirect, config.CLIENT_URL+"/signin")
}
