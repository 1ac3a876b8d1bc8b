package subscription

import (
	"strings"
	"time"

	"moviestream-app/internal/domain/subscriptions"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListQuery struct {
	Page      int
	Limit     int
	SortBy    string
	Order     string
	IsActive  *bool
	StartFrom *time.Time // start_date >=
	EndUntil  *time.Time // end_date <=
}

func (q ListQuery) normalize() (page, limit int, sortBy, order string) {
	page, limit = q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	sortBy = "created_at"
	switch q.SortBy {
	case "created_at", "start_date", "end_date", "final_price":
		sortBy = q.SortBy
	}
	order = "DESC"
	if strings.EqualFold(q.Order, "ASC") {
		order = "ASC"
	}
	return
}

func (s *Service) applyListQuery(db *gorm.DB, q ListQuery) *gorm.DB {
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}
	if q.StartFrom != nil {
		db = db.Where("start_date >= ?", *q.StartFrom)
	}
	if q.EndUntil != nil {
		db = db.Where("end_date <= ?", *q.EndUntil)
	}
	return db
}

// List returns subscriptions with their plan and coupon, filtered,
// sorted and paginated, along with the unpaginated total.
func (s *Service) List(q ListQuery) ([]subscriptions.Subscription, int64, error) {
	db := s.applyListQuery(s.db.Model(&subscriptions.Subscription{}), q)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit, sortBy, order := q.normalize()
	var out []subscriptions.Subscription
	err := db.Preload("Plan").Preload("Coupon").
		Order(sortBy + " " + order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	return out, total, err
}

// ListActive is List constrained to active subscriptions.
func (s *Service) ListActive(q ListQuery) ([]subscriptions.Subscription, int64, error) {
	active := true
	q.IsActive = &active
	return s.List(q)
}

// ListByUser returns one user's subscriptions, newest start first.
func (s *Service) ListByUser(userID uuid.UUID, q ListQuery) ([]subscriptions.Subscription, error) {
	db := s.db.Where("user_id = ?", userID)
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}

	page, limit, _, _ := q.normalize()
	var out []subscriptions.Subscription
	err := db.Preload("Plan").Preload("Coupon").
		Order("start_date DESC NULLS LAST").
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	return out, err
}
