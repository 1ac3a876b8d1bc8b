package subscription

import (
	"math"
	"time"

	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpireDue deactivates every subscription whose end_date has passed
// and resets the owner's tier to FREE. Each record is processed in its
// own row-locked transaction so one bad row doesn't abort the sweep,
// and so a racing activation either wins the lock first or sees the
// expired row. Returns the number of subscriptions expired.
func (s *Service) ExpireDue(now time.Time) (int, error) {
	var due []subscriptions.Subscription
	if err := s.db.Where("is_active = ? AND end_date < ?", true, now).
		Find(&due).Error; err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range due {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			var sub subscriptions.Subscription
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&sub, "id = ?", candidate.ID).Error; err != nil {
				return err
			}
			// Re-check under the lock: a concurrent cancel or a second
			// sweep may already have deactivated it.
			if !sub.IsActive || sub.EndDate == nil || !sub.EndDate.Before(now) {
				return nil
			}
			if err := tx.Model(&sub).Update("is_active", false).Error; err != nil {
				return err
			}
			if err := tx.Model(&users.User{}).Where("id = ?", sub.UserID).
				Update("subscription_type", users.TierFree).Error; err != nil {
				return err
			}
			expired++
			return nil
		})
		if err != nil {
			s.log.Error("expiry sweep: failed to expire subscription",
				zap.String("subscription_id", candidate.ID.String()),
				zap.Error(err))
		}
	}

	if expired > 0 {
		s.log.Info("expiry sweep finished", zap.Int("expired", expired))
	}
	return expired, nil
}

// NotifyExpiringSoon emails owners of active subscriptions whose end
// date falls within the reminder window. The window is half-open
// (now, now+N days]: a "within N days" match rather than an exact-day
// match, so a delayed sweep still catches everything. A subscription is
// only ever notified once, tracked by reminder_sent_at.
func (s *Service) NotifyExpiringSoon(now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, s.ReminderWindowDays)

	var expiring []subscriptions.Subscription
	if err := s.db.
		Where("is_active = ? AND reminder_sent_at IS NULL AND end_date > ? AND end_date <= ?",
			true, now, cutoff).
		Find(&expiring).Error; err != nil {
		return 0, err
	}

	notified := 0
	for _, sub := range expiring {
		var user users.User
		if err := s.db.First(&user, "id = ?", sub.UserID).Error; err != nil {
			s.log.Error("reminder sweep: owner lookup failed",
				zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}

		daysLeft := int(math.Ceil(sub.EndDate.Sub(now).Hours() / 24))
		if err := s.mail.SendRenewalReminder(user.Email, user.FirstName, daysLeft); err != nil {
			// Leave reminder_sent_at unset so the next sweep retries.
			s.log.Warn("reminder sweep: send failed",
				zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}

		if err := s.db.Model(&subscriptions.Subscription{}).
			Where("id = ?", sub.ID).
			Update("reminder_sent_at", now).Error; err != nil {
			s.log.Error("reminder sweep: failed to mark reminder sent",
				zap.String("subscription_id", sub.ID.String()), zap.Error(err))
			continue
		}
		notified++
	}

	if notified > 0 {
		s.log.Info("reminder sweep finished", zap.Int("notified", notified))
	}
	return notified, nil
}
