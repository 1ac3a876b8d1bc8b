package couponsapi

import (
	"net/http"

	"moviestream-app/internal/api/apiutil"
	"moviestream-app/internal/service/coupon"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GET /coupons/:code/validate
func Validate(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := svc.Validate(c.Param("code"))
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"valid":            true,
			"code":             cp.Code,
			"discount_percent": cp.DiscountPercent,
			"valid_to":         cp.ValidTo,
		})
	}
}

// POST /coupons (admin)
func Create(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in coupon.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cp, err := svc.Create(in)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, cp)
	}
}

// GET /coupons (admin)
func List(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := coupon.ListQuery{
			Page:     apiutil.QueryInt(c, "page", 1),
			Limit:    apiutil.QueryInt(c, "limit", 10),
			Search:   c.Query("search"),
			IsActive: apiutil.QueryBool(c, "is_active"),
			SortBy:   c.Query("sort_by"),
			Order:    c.Query("order"),
		}
		out, total, err := svc.List(q)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"coupons": out,
			"total":   total,
			"page":    q.Page,
			"limit":   q.Limit,
		})
	}
}

// GET /coupons/:idOrCode (admin)
func Get(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := svc.Get(c.Param("id"))
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

// PATCH /coupons/:id (admin)
func Update(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon id"})
			return
		}
		var in coupon.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		cp, err := svc.Update(id, in)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, cp)
	}
}

// DELETE /coupons/:id (admin)
func Delete(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon id"})
			return
		}
		if err := svc.Delete(id); err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
	}
}

// POST /coupons/:id/increment (admin) — accepts a coupon id or code.
func Increment(svc *coupon.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cp, err := svc.Get(c.Param("id"))
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		cp, err = svc.IncrementUseCount(cp.Code)
		if err != nil {
			apiutil.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": cp.Code, "use_count": cp.UseCount})
	}
}
