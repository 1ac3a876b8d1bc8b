package subscriptions

import (
	"time"

	"moviestream-app/internal/domain/coupons"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription lifecycle: created pending (is_active=false, nil dates),
// activated on payment success (dates set), then expired by the sweep,
// canceled manually, or re-planned. DiscountAmount and FinalPrice are
// frozen at creation; later plan or coupon changes never touch them.
type Subscription struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User     users.User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	PlanID   uuid.UUID  `gorm:"type:uuid;not null" json:"plan_id"`
	Plan     plans.Plan `json:"plan"`
	CouponID *uuid.UUID `gorm:"type:uuid" json:"coupon_id,omitempty"`
	Coupon   *coupons.Coupon `json:"coupon,omitempty"`

	DiscountAmount float64 `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	FinalPrice     float64 `gorm:"type:decimal(10,2);not null" json:"final_price"`

	IsActive  bool       `gorm:"not null;default:false;index" json:"is_active"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `gorm:"index" json:"end_date"`

	// Set once a renewal reminder went out so the daily sweep does not
	// notify the same subscription again.
	ReminderSentAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
