package admin

import (
	"net/http"
	"time"

	"moviestream-app/database"
	"moviestream-app/internal/domain/billing"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminUser struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      *string   `json:"phone,omitempty"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Tier       string    `json:"tier"`
	CreatedAt  string    `json:"created_at"`
}

type AdminStats struct {
	TotalUsers          int            `json:"total_users"`
	ActiveSubscriptions int            `json:"active_subscriptions"`
	TotalRevenue        float64        `json:"total_revenue"`
	RecentRevenue       float64        `json:"recent_revenue"`
	UsersPerTier        map[string]int `json:"users_per_tier"`
}

func AdminDashboard(c *gin.Context) {
	var stats AdminStats

	var totalUsers, activeSubs int64
	var totalRevenue, recentRevenue float64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&subscriptions.Subscription{}).
		Where("is_active = ?", true).Count(&activeSubs)

	database.DB.Model(&billing.Payment{}).
		Where("status = ?", billing.StatusSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.Payment{}).
		Where("status = ? AND created_at >= ?", billing.StatusSuccess, thirtyDaysAgo).
		Select("COALESCE(SUM(amount), 0)").Scan(&recentRevenue)

	stats.TotalUsers = int(totalUsers)
	stats.ActiveSubscriptions = int(activeSubs)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue

	type TierCount struct {
		Tier  string
		Count int
	}
	var counts []TierCount
	database.DB.
		Table("users").
		Select("subscription_type AS tier, COUNT(id) AS count").
		Group("subscription_type").
		Scan(&counts)

	stats.UsersPerTier = map[string]int{}
	for _, tc := range counts {
		stats.UsersPerTier[tc.Tier] = tc.Count
	}

	c.JSON(http.StatusOK, stats)
}

func ListAllUsers(c *gin.Context) {
	var all []users.User
	if err := database.DB.Order("created_at DESC").Find(&all).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	adminUsers := make([]AdminUser, 0, len(all))
	for _, u := range all {
		adminUsers = append(adminUsers, AdminUser{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Phone:      u.Phone,
			Email:      u.Email,
			Role:       u.Role,
			IsVerified: u.IsVerified,
			Tier:       u.SubscriptionType,
			CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func GetUserDetails(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var subs []subscriptions.Subscription
	if err := database.DB.Preload("Plan").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subscriptions"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Where("user_id = ?", userID).
		Order("payment_date DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"subscriptions": subs,
		"payments":      payments,
	})
}
