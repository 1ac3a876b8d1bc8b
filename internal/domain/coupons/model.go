package coupons

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coupon struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code            string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_coupons_code" json:"code"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	Description     string    `gorm:"type:text" json:"description"`
	ValidFrom       time.Time `gorm:"not null" json:"valid_from"`
	ValidTo         time.Time `gorm:"not null" json:"valid_to"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	UseCount        int       `gorm:"not null;default:0" json:"use_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Usable reports whether the coupon can be applied at the given time.
func (c Coupon) Usable(now time.Time) bool {
	return c.IsActive && !now.Before(c.ValidFrom) && !now.After(c.ValidTo)
}

// Discount computes the discount amount a coupon yields on a price.
func (c Coupon) Discount(price float64) float64 {
	return c.DiscountPercent / 100 * price
}
