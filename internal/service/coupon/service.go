package coupon

import (
	"errors"
	"strings"
	"time"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/domain/coupons"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Validate looks a coupon up by code and checks it is currently usable.
// No side effects: use counting happens at activation time.
func (s *Service) Validate(code string) (*coupons.Coupon, error) {
	var cp coupons.Coupon
	if err := s.db.First(&cp, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon %q", code)
		}
		return nil, err
	}
	if !cp.Usable(time.Now()) {
		return nil, apperr.Invalid("coupon %q is inactive or outside its validity window", code)
	}
	return &cp, nil
}

// IncrementUseCount atomically bumps use_count and returns the updated
// coupon.
func (s *Service) IncrementUseCount(code string) (*coupons.Coupon, error) {
	res := s.db.Model(&coupons.Coupon{}).Where("code = ?", code).
		UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("coupon %q", code)
	}
	var cp coupons.Coupon
	if err := s.db.First(&cp, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}

// IncrementByIDTx bumps use_count inside the caller's transaction so
// the increment commits together with the activation that earned it.
func (s *Service) IncrementByIDTx(tx *gorm.DB, id uuid.UUID) error {
	res := tx.Model(&coupons.Coupon{}).Where("id = ?", id).
		UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("coupon %s", id)
	}
	return nil
}

type CreateInput struct {
	Code            string    `json:"code" binding:"required"`
	DiscountPercent float64   `json:"discount_percent" binding:"required"`
	Description     string    `json:"description"`
	ValidFrom       time.Time `json:"valid_from" binding:"required"`
	ValidTo         time.Time `json:"valid_to" binding:"required"`
	IsActive        *bool     `json:"is_active"`
}

func (s *Service) Create(in CreateInput) (*coupons.Coupon, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, apperr.Invalid("coupon code is required")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return nil, apperr.Invalid("discount_percent must be between 0 and 100")
	}
	if in.ValidTo.Before(in.ValidFrom) {
		return nil, apperr.Invalid("valid_to must not precede valid_from")
	}

	var existing int64
	if err := s.db.Model(&coupons.Coupon{}).Where("code = ?", code).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Conflict("coupon code %q already exists", code)
	}

	cp := coupons.Coupon{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: in.DiscountPercent,
		Description:     in.Description,
		ValidFrom:       in.ValidFrom,
		ValidTo:         in.ValidTo,
		IsActive:        true,
	}
	if in.IsActive != nil {
		cp.IsActive = *in.IsActive
	}
	if err := s.db.Create(&cp).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}

type UpdateInput struct {
	DiscountPercent *float64   `json:"discount_percent"`
	Description     *string    `json:"description"`
	ValidFrom       *time.Time `json:"valid_from"`
	ValidTo         *time.Time `json:"valid_to"`
	IsActive        *bool      `json:"is_active"`
}

func (s *Service) Update(id uuid.UUID, in UpdateInput) (*coupons.Coupon, error) {
	var cp coupons.Coupon
	if err := s.db.First(&cp, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon %s", id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.DiscountPercent != nil {
		if *in.DiscountPercent < 0 || *in.DiscountPercent > 100 {
			return nil, apperr.Invalid("discount_percent must be between 0 and 100")
		}
		updates["discount_percent"] = *in.DiscountPercent
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ValidFrom != nil {
		updates["valid_from"] = *in.ValidFrom
	}
	if in.ValidTo != nil {
		updates["valid_to"] = *in.ValidTo
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) == 0 {
		return &cp, nil
	}
	if err := s.db.Model(&cp).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}

func (s *Service) Delete(id uuid.UUID) error {
	res := s.db.Delete(&coupons.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("coupon %s", id)
	}
	return nil
}

// Get loads a coupon by UUID or, failing UUID parse, by code.
func (s *Service) Get(idOrCode string) (*coupons.Coupon, error) {
	var cp coupons.Coupon
	var err error
	if id, parseErr := uuid.Parse(idOrCode); parseErr == nil {
		err = s.db.First(&cp, "id = ?", id).Error
	} else {
		err = s.db.First(&cp, "code = ?", idOrCode).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("coupon %q", idOrCode)
		}
		return nil, err
	}
	return &cp, nil
}

type ListQuery struct {
	Page     int
	Limit    int
	Search   string
	IsActive *bool
	SortBy   string
	Order    string
}

func (s *Service) List(q ListQuery) ([]coupons.Coupon, int64, error) {
	db := s.db.Model(&coupons.Coupon{})
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("code ILIKE ? OR description ILIKE ?", like, like)
	}
	if q.IsActive != nil {
		db = db.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	switch q.SortBy {
	case "code", "discount_percent", "use_count", "valid_to", "created_at":
		sortBy = q.SortBy
	}
	order := "DESC"
	if strings.EqualFold(q.Order, "ASC") {
		order = "ASC"
	}

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var out []coupons.Coupon
	err := db.Order(sortBy + " " + order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error
	return out, total, err
}
