package plans

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan is read-mostly reference data. Updating a plan only affects
// subscriptions created afterwards; existing subscriptions keep the
// price they were created with.
type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_plans_name" json:"name"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency     string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
