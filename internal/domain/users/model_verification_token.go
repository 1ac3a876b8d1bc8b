package users

import (
	"time"

	"github.com/google/uuid"
)

type VerificationToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `gorm:"uniqueIndex"`
	Type      string    `gorm:"index"`
	ExpiresAt time.Time
	CreatedAt time.Time
}
