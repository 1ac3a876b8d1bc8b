package paymentsapi

import (
	"net/http"

	"moviestream-app/internal/api/apiutil"
	"moviestream-app/internal/app/http/middleware"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /payment
func Create(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		var body struct {
			SubscriptionID string `json:"subscription_id" binding:"required"`
			Method         string `json:"method" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		subID, err := uuid.Parse(body.SubscriptionID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
			return
		}

		result, err := svc.Create(subID, body.Method, userID)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// GET /payment/all (admin)
func GetAll(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.GetAll(payment.ListQuery{
			Page:   apiutil.QueryInt(c, "page", 1),
			Limit:  apiutil.QueryInt(c, "limit", 10),
			Status: c.Query("status"),
			Method: c.Query("method"),
			SortBy: c.Query("sort_by"),
			Order:  c.Query("order"),
		})
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GET /payment/single/:id
func Get(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
			return
		}

		pay, err := svc.GetByID(id)
		if err != nil {
			apiutil.Error(c, err)
			return
		}

		userID, _ := middleware.UserID(c)
		if pay.UserID != userID && c.GetString("role") != users.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusOK, pay)
	}
}

// POST /payment/delete/:id (admin)
func Delete(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
			return
		}
		if err := svc.Delete(id); err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment deleted"})
	}
}
