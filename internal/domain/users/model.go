package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"type:varchar(100);not null"`
	LastName     string    `gorm:"type:varchar(100);not null"`
	Phone        *string   `gorm:"type:varchar(15)"`
	Email        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_users_email"`
	Password     *string   `gorm:""`
	AuthProvider string    `gorm:"type:varchar(20);not null;default:'local'"`
	GoogleSub    *string   `gorm:"uniqueIndex:idx_users_google_sub"`
	Avatar       *string   `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(20);not null;default:'USER'"`
	IsVerified   bool      `gorm:"not null;default:false"`

	// Denormalized tier label used by access checks; kept in sync with
	// the user's active subscription plan.
	SubscriptionType string `gorm:"type:varchar(20);not null;default:'FREE'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
