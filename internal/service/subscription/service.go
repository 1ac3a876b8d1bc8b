package subscription

import (
	"errors"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/coupon"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mailer sends the renewal reminders emitted by the daily sweep.
type Mailer interface {
	SendRenewalReminder(toEmail, firstName string, daysRemaining int) error
}

type Service struct {
	db      *gorm.DB
	coupons *coupon.Service
	mail    Mailer
	log     *zap.Logger

	// Days before end_date at which the reminder sweep fires.
	ReminderWindowDays int
}

func New(db *gorm.DB, coupons *coupon.Service, mail Mailer, log *zap.Logger) *Service {
	return &Service{
		db:                 db,
		coupons:            coupons,
		mail:               mail,
		log:                log,
		ReminderWindowDays: 3,
	}
}

// CreatePending creates an inactive subscription for the user. The
// discount and final price are computed here and frozen into the row.
func (s *Service) CreatePending(userID, planID uuid.UUID, couponCode string) (*subscriptions.Subscription, error) {
	var user users.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user %s", userID)
		}
		return nil, err
	}

	var plan plans.Plan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription plan %s", planID)
		}
		return nil, err
	}

	var active int64
	if err := s.db.Model(&subscriptions.Subscription{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apperr.Conflict("user already has an active subscription")
	}

	sub := subscriptions.Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		PlanID:     plan.ID,
		FinalPrice: plan.Price,
	}

	if couponCode != "" {
		cp, err := s.coupons.Validate(couponCode)
		if err != nil {
			return nil, err
		}
		sub.CouponID = &cp.ID
		sub.DiscountAmount = cp.Discount(plan.Price)
		sub.FinalPrice = plan.Price - sub.DiscountAmount
	}

	if err := s.db.Create(&sub).Error; err != nil {
		return nil, err
	}

	sub.Plan = plan
	s.log.Info("subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("final_price", sub.FinalPrice))
	return &sub, nil
}

// Activate transitions a pending subscription to active in its own
// transaction.
func (s *Service) Activate(subID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.ActivateTx(tx, subID)
	})
}

// ActivateTx activates inside the caller's transaction so payment
// processing and activation commit or roll back together. The row lock
// is what keeps a racing expiry sweep from also winning.
func (s *Service) ActivateTx(tx *gorm.DB, subID uuid.UUID) error {
	var sub subscriptions.Subscription
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sub, "id = ?", subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("subscription %s", subID)
		}
		return err
	}

	if sub.IsActive {
		return apperr.Conflict("subscription %s is already active", subID)
	}

	var other int64
	if err := tx.Model(&subscriptions.Subscription{}).
		Where("user_id = ? AND is_active = ? AND id <> ?", sub.UserID, true, sub.ID).
		Count(&other).Error; err != nil {
		return err
	}
	if other > 0 {
		return apperr.Conflict("user already has an active subscription")
	}

	var plan plans.Plan
	if err := tx.First(&plan, "id = ?", sub.PlanID).Error; err != nil {
		return err
	}

	now := tx.NowFunc()
	end := now.AddDate(0, 0, plan.DurationDays)
	if err := tx.Model(&sub).Updates(map[string]interface{}{
		"is_active":  true,
		"start_date": now,
		"end_date":   end,
	}).Error; err != nil {
		return err
	}

	if sub.CouponID != nil {
		if err := s.coupons.IncrementByIDTx(tx, *sub.CouponID); err != nil {
			return err
		}
	}

	if err := tx.Model(&users.User{}).Where("id = ?", sub.UserID).
		Update("subscription_type", users.NormalizeTier(plan.Name)).Error; err != nil {
		return err
	}

	s.log.Info("subscription activated",
		zap.String("subscription_id", subID.String()),
		zap.Time("end_date", end))
	return nil
}

// Cancel deactivates a subscription and drops the user back to FREE.
func (s *Service) Cancel(subID uuid.UUID) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", subID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("subscription %s", subID)
			}
			return err
		}
		if err := tx.Model(&sub).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&users.User{}).Where("id = ?", sub.UserID).
			Update("subscription_type", users.TierFree).Error
	})
	if err != nil {
		return nil, err
	}
	sub.IsActive = false
	s.log.Info("subscription canceled", zap.String("subscription_id", subID.String()))
	return &sub, nil
}

// ChangePlan moves a subscription to a new plan. The new end date stays
// anchored to the original start date, so switching plans can shorten
// or lengthen the remaining time.
func (s *Service) ChangePlan(subID, newPlanID uuid.UUID) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sub, "id = ?", subID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("subscription %s", subID)
			}
			return err
		}

		var newPlan plans.Plan
		if err := tx.First(&newPlan, "id = ?", newPlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("plan %s", newPlanID)
			}
			return err
		}

		updates := map[string]interface{}{"plan_id": newPlan.ID}
		if sub.StartDate != nil {
			end := sub.StartDate.AddDate(0, 0, newPlan.DurationDays)
			updates["end_date"] = end
			sub.EndDate = &end
		}
		if err := tx.Model(&sub).Updates(updates).Error; err != nil {
			return err
		}
		sub.PlanID = newPlan.ID
		sub.Plan = newPlan

		return tx.Model(&users.User{}).Where("id = ?", sub.UserID).
			Update("subscription_type", users.NormalizeTier(newPlan.Name)).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("subscription plan changed",
		zap.String("subscription_id", subID.String()),
		zap.String("new_plan_id", newPlanID.String()))
	return &sub, nil
}

// GetByID loads a subscription with its plan and coupon.
func (s *Service) GetByID(subID uuid.UUID) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	if err := s.db.Preload("Plan").Preload("Coupon").
		First(&sub, "id = ?", subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription %s", subID)
		}
		return nil, err
	}
	return &sub, nil
}
