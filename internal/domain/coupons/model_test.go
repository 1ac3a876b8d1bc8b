package coupons

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponUsable(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	c := Coupon{
		Code:            "SAVE10",
		DiscountPercent: 10,
		ValidFrom:       now.AddDate(0, 0, -1),
		ValidTo:         now.AddDate(0, 0, 1),
		IsActive:        true,
	}

	assert.True(t, c.Usable(now))

	t.Run("inactive", func(t *testing.T) {
		inactive := c
		inactive.IsActive = false
		assert.False(t, inactive.Usable(now))
	})

	t.Run("before window", func(t *testing.T) {
		assert.False(t, c.Usable(c.ValidFrom.Add(-time.Second)))
	})

	t.Run("after window", func(t *testing.T) {
		assert.False(t, c.Usable(c.ValidTo.Add(time.Second)))
	})

	t.Run("window is inclusive", func(t *testing.T) {
		assert.True(t, c.Usable(c.ValidFrom))
		assert.True(t, c.Usable(c.ValidTo))
	})
}

func TestCouponDiscount(t *testing.T) {
	c := Coupon{DiscountPercent: 10}
	assert.InDelta(t, 2.00, c.Discount(20.00), 1e-9)
	assert.InDelta(t, 0, Coupon{DiscountPercent: 0}.Discount(20.00), 1e-9)
	assert.InDelta(t, 20.00, Coupon{DiscountPercent: 100}.Discount(20.00), 1e-9)
}
