package billing

import (
	"time"

	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment statuses. Transitions move forward only; see CanTransition.
const (
	StatusPending  = "PENDING"
	StatusSuccess  = "SUCCESS"
	StatusFailed   = "FAILED"
	StatusCanceled = "CANCELED"
	StatusExpired  = "EXPIRED"
	StatusRefunded = "REFUNDED"
)

// Payment methods.
const (
	MethodCard   = "CARD"
	MethodPaypal = "PAYPAL"
	MethodWallet = "WALLET"
)

type Payment struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User   users.User `json:"-"`

	// One payment per subscription.
	SubscriptionID uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex:idx_payments_subscription" json:"subscription_id"`
	Subscription   subscriptions.Subscription `json:"-"`

	Amount float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method string  `gorm:"type:varchar(10);not null" json:"method"`
	Status string  `gorm:"type:varchar(10);not null;default:'PENDING';index" json:"status"`

	// Provider identifiers: the settled payment intent and the checkout
	// session that initiated it. Nil until a CARD checkout is opened.
	TransactionID     *string `gorm:"index" json:"transaction_id"`
	CheckoutSessionID *string `gorm:"uniqueIndex:idx_payments_checkout_session" json:"checkout_session_id"`

	BillingCycle string    `gorm:"type:varchar(20)" json:"billing_cycle"`
	PaymentDate  time.Time `gorm:"not null" json:"payment_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func ValidMethod(m string) bool {
	switch m {
	case MethodCard, MethodPaypal, MethodWallet:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusCanceled, StatusExpired, StatusRefunded:
		return true
	}
	return false
}
