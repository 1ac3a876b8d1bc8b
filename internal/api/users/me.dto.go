package usersapi

import (
	"time"

	"github.com/google/uuid"
)

type MeResponse struct {
	User         UserDTO          `json:"user"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      *string   `json:"phone"`
	Avatar     *string   `json:"avatar"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	Tier       string    `json:"tier"`
}

/* ---------- SUBSCRIPTION ---------- */

type SubscriptionDTO struct {
	ID         uuid.UUID  `json:"id"`
	PlanName   string     `json:"plan_name"`
	FinalPrice float64    `json:"final_price"`
	IsActive   bool       `json:"is_active"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	DaysLeft   *int       `json:"days_left"`
}
