package subscriptionsapi

import (
	"net/http"

	"moviestream-app/internal/api/apiutil"
	"moviestream-app/internal/app/http/middleware"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POST /subscription/:id?coupon=CODE — the path id is the plan to
// subscribe to.
func Create(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}
		planID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
			return
		}

		sub, err := svc.CreatePending(userID, planID, c.Query("coupon"))
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, sub)
	}
}

// GET /subscription/:id
func Get(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
			return
		}

		sub, err := svc.GetByID(id)
		if err != nil {
			apiutil.Error(c, err)
			return
		}

		// Owners and admins only.
		userID, _ := middleware.UserID(c)
		if sub.UserID != userID && c.GetString("role") != users.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusOK, sub)
	}
}

// GET /subscription/user/:userID
func ListByUser(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := uuid.Parse(c.Param("userID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
			return
		}

		userID, _ := middleware.UserID(c)
		if targetID != userID && c.GetString("role") != users.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		subs, err := svc.ListByUser(targetID, subscription.ListQuery{
			Page:     apiutil.QueryInt(c, "page", 1),
			Limit:    apiutil.QueryInt(c, "limit", 10),
			IsActive: apiutil.QueryBool(c, "is_active"),
		})
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, subs)
	}
}

// POST /subscription/:id/cancel
func Cancel(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
			return
		}

		sub, err := svc.GetByID(id)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		userID, _ := middleware.UserID(c)
		if sub.UserID != userID && c.GetString("role") != users.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		out, err := svc.Cancel(id)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// POST /subscription/:id/change-plan
func ChangePlan(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
			return
		}

		var body struct {
			PlanID string `json:"plan_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newPlanID, err := uuid.Parse(body.PlanID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan id"})
			return
		}

		sub, err := svc.GetByID(id)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		userID, _ := middleware.UserID(c)
		if sub.UserID != userID && c.GetString("role") != users.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}

		out, err := svc.ChangePlan(id, newPlanID)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// GET /subscriptions (admin)
func List(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := listQueryFrom(c)
		subs, total, err := svc.List(q)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"subscriptions": subs,
			"total":         total,
			"page":          q.Page,
			"limit":         q.Limit,
		})
	}
}

// GET /subscriptions/active (admin)
func ListActive(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := listQueryFrom(c)
		subs, total, err := svc.ListActive(q)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"subscriptions": subs,
			"total":         total,
			"page":          q.Page,
			"limit":         q.Limit,
		})
	}
}

func listQueryFrom(c *gin.Context) subscription.ListQuery {
	return subscription.ListQuery{
		Page:     apiutil.QueryInt(c, "page", 1),
		Limit:    apiutil.QueryInt(c, "limit", 10),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		IsActive: apiutil.QueryBool(c, "is_active"),
	}
}
