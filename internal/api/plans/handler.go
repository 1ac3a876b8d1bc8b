package plansapi

import (
	"net/http"

	"moviestream-app/database"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func ListPlans(c *gin.Context) {
	var plansList []plans.Plan
	if err := database.DB.Order("price ASC").Find(&plansList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, plansList)
}

func GetPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var plan plans.Plan
	if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func CreatePlan(c *gin.Context) {
	var input struct {
		Name         string  `json:"name" binding:"required"`
		Price        float64 `json:"price" binding:"required"`
		Currency     string  `json:"currency"`
		DurationDays int     `json:"duration_days" binding:"required"`
		Description  string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !users.ValidTier(input.Name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plan name must be a known subscription tier"})
		return
	}
	if input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}
	if input.DurationDays <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be at least one day"})
		return
	}

	var count int64
	database.DB.Model(&plans.Plan{}).Where("name = ?", input.Name).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A plan with this name already exists"})
		return
	}

	plan := plans.Plan{
		Name:         input.Name,
		Price:        input.Price,
		Currency:     input.Currency,
		DurationDays: input.DurationDays,
		Description:  input.Description,
	}
	if plan.Currency == "" {
		plan.Currency = "USD"
	}

	if err := database.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func UpdatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var plan plans.Plan
	if err := database.DB.First(&plan, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var input struct {
		Price        *float64 `json:"price"`
		Currency     *string  `json:"currency"`
		DurationDays *int     `json:"duration_days"`
		Description  *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		updates["price"] = *input.Price
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}
	if input.DurationDays != nil {
		if *input.DurationDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duration must be at least one day"})
			return
		}
		updates["duration_days"] = *input.DurationDays
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&plan).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan"})
			return
		}
	}

	database.DB.First(&plan, "id = ?", id)
	c.JSON(http.StatusOK, plan)
}

func DeletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
		return
	}

	var inUse int64
	database.DB.Model(&subscriptions.Subscription{}).Where("plan_id = ?", id).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Plan has subscriptions and cannot be deleted"})
		return
	}

	res := database.DB.Delete(&plans.Plan{}, "id = ?", id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete plan"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Plan deleted"})
}
