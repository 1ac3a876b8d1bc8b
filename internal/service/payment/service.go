package payment

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/domain/billing"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/subscription"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db       *gorm.DB
	subs     *subscription.Service
	provider Provider
	mail     Mailer
	log      *zap.Logger

	// Client-facing URLs the provider redirects to after checkout.
	SuccessURL string
	CancelURL  string
}

func New(db *gorm.DB, subs *subscription.Service, provider Provider, mail Mailer, log *zap.Logger, clientURL string) *Service {
	return &Service{
		db:         db,
		subs:       subs,
		provider:   provider,
		mail:       mail,
		log:        log,
		SuccessURL: clientURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  clientURL + "/payment-cancel",
	}
}

// CreateResult is what the client needs to continue a checkout.
type CreateResult struct {
	Payment    *billing.Payment `json:"payment"`
	SessionURL *string          `json:"session_url"`
	SessionID  *string          `json:"session_id"`
}

// Create opens a payment for a subscription. CARD payments get an
// external checkout session; other methods stay PENDING until their
// provider events arrive.
func (s *Service) Create(subID uuid.UUID, method string, userID uuid.UUID) (*CreateResult, error) {
	if !billing.ValidMethod(method) {
		return nil, apperr.Invalid("unknown payment method %q", method)
	}

	var sub subscriptions.Subscription
	if err := s.db.Preload("Plan").First(&sub, "id = ?", subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("subscription %s", subID)
		}
		return nil, err
	}

	if sub.UserID != userID {
		return nil, apperr.Forbidden("you cannot pay for another user's subscription")
	}

	var existing int64
	if err := s.db.Model(&billing.Payment{}).
		Where("subscription_id = ?", subID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Conflict("payment already exists for this subscription")
	}

	var user users.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	pay := billing.Payment{
		ID:             uuid.New(),
		UserID:         userID,
		SubscriptionID: sub.ID,
		Amount:         sub.FinalPrice,
		Method:         method,
		Status:         billing.StatusPending,
		BillingCycle:   plans.BillingCycle(sub.Plan.DurationDays),
		PaymentDate:    s.db.NowFunc(),
	}

	var sessionURL, sessionID *string
	if method == billing.MethodCard && s.provider.Enabled() {
		session, err := s.provider.CreateCheckoutSession(CheckoutParams{
			Amount:        sub.FinalPrice,
			Currency:      sub.Plan.Currency,
			ProductName:   sub.Plan.Name,
			ProductDesc:   sub.Plan.Description,
			SuccessURL:    s.SuccessURL,
			CancelURL:     s.CancelURL,
			CustomerEmail: user.Email,
			Metadata: map[string]string{
				"subscription_id": sub.ID.String(),
				"user_id":         userID.String(),
			},
		})
		if err != nil {
			return nil, apperr.External("checkout session creation failed: %v", err)
		}
		pay.CheckoutSessionID = &session.SessionID
		if session.PaymentIntentID != "" {
			pay.TransactionID = &session.PaymentIntentID
		}
		sessionURL = &session.RedirectURL
		sessionID = &session.SessionID
	}

	if err := s.db.Create(&pay).Error; err != nil {
		return nil, err
	}

	s.log.Info("payment created",
		zap.String("payment_id", pay.ID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.String("method", method))

	return &CreateResult{Payment: &pay, SessionURL: sessionURL, SessionID: sessionID}, nil
}

// HandleProviderEvent dispatches a verified provider event. Handlers
// are idempotent against at-least-once delivery: re-applying a status a
// payment already holds is a silent no-op.
func (s *Service) HandleProviderEvent(ev *Event) error {
	switch ev.Kind {
	case EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ev)
	case EventIntentSucceeded:
		return s.handleIntentSucceeded(ev)
	case EventIntentFailed:
		return s.markByIntent(ev.PaymentIntentID, billing.StatusFailed, true)
	case EventCheckoutExpired:
		return s.markBySession(ev.CheckoutSessionID, billing.StatusExpired)
	case EventChargeRefunded:
		return s.markByIntent(ev.PaymentIntentID, billing.StatusRefunded, true)
	default:
		s.log.Info("ignoring unhandled provider event", zap.String("kind", ev.Kind))
		return nil
	}
}

// handleCheckoutCompleted settles the payment found by checkout session
// id and activates its subscription in the same transaction. A missing
// payment here is a hard error so the provider retries.
func (s *Service) handleCheckoutCompleted(ev *Event) error {
	var settled *billing.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pay billing.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pay, "checkout_session_id = ?", ev.CheckoutSessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment for checkout session %s", ev.CheckoutSessionID)
			}
			return err
		}

		if billing.IsNoop(pay.Status, billing.StatusSuccess) {
			s.log.Info("duplicate checkout completion, no-op",
				zap.String("payment_id", pay.ID.String()))
			return nil
		}
		if !billing.CanTransition(pay.Status, billing.StatusSuccess) {
			s.log.Warn("checkout completion for payment in terminal state, ignoring",
				zap.String("payment_id", pay.ID.String()),
				zap.String("status", pay.Status))
			return nil
		}

		updates := map[string]interface{}{"status": billing.StatusSuccess}
		if ev.PaymentIntentID != "" {
			updates["transaction_id"] = ev.PaymentIntentID
			pay.TransactionID = &ev.PaymentIntentID
		}
		if err := tx.Model(&pay).Updates(updates).Error; err != nil {
			return err
		}
		pay.Status = billing.StatusSuccess

		if err := s.subs.ActivateTx(tx, pay.SubscriptionID); err != nil {
			return fmt.Errorf("activating subscription: %w", err)
		}
		settled = &pay
		return nil
	})
	if err != nil {
		return err
	}

	if settled != nil {
		s.sendReceipt(settled)
	}
	return nil
}

// handleIntentSucceeded usually arrives alongside checkout completion.
// An unknown intent id is the redundant-delivery case and is not an
// error.
func (s *Service) handleIntentSucceeded(ev *Event) error {
	var settled *billing.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pay billing.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pay, "transaction_id = ?", ev.PaymentIntentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.log.Info("intent succeeded for unknown payment, assuming handled by checkout completion",
					zap.String("payment_intent", ev.PaymentIntentID))
				return nil
			}
			return err
		}

		if billing.IsNoop(pay.Status, billing.StatusSuccess) {
			return nil
		}
		if !billing.CanTransition(pay.Status, billing.StatusSuccess) {
			return nil
		}

		if err := tx.Model(&pay).Update("status", billing.StatusSuccess).Error; err != nil {
			return err
		}
		pay.Status = billing.StatusSuccess

		if err := s.subs.ActivateTx(tx, pay.SubscriptionID); err != nil {
			return fmt.Errorf("activating subscription: %w", err)
		}
		settled = &pay
		return nil
	})
	if err != nil {
		return err
	}

	if settled != nil {
		s.sendReceipt(settled)
	}
	return nil
}

// markByIntent moves the payment found by transaction id to the target
// status. notFoundIsError distinguishes failure/refund events (where a
// missing payment is surfaced) from benign paths.
func (s *Service) markByIntent(intentID, target string, notFoundIsError bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pay billing.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pay, "transaction_id = ?", intentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if notFoundIsError {
					return apperr.NotFound("payment for intent %s", intentID)
				}
				return nil
			}
			return err
		}
		return s.applyStatus(tx, &pay, target)
	})
}

// markBySession is markByIntent keyed on the checkout session id.
func (s *Service) markBySession(sessionID, target string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var pay billing.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&pay, "checkout_session_id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment for checkout session %s", sessionID)
			}
			return err
		}
		return s.applyStatus(tx, &pay, target)
	})
}

func (s *Service) applyStatus(tx *gorm.DB, pay *billing.Payment, target string) error {
	if billing.IsNoop(pay.Status, target) {
		return nil
	}
	if !billing.CanTransition(pay.Status, target) {
		s.log.Warn("rejecting backward payment transition",
			zap.String("payment_id", pay.ID.String()),
			zap.String("from", pay.Status),
			zap.String("to", target))
		return nil
	}
	if err := tx.Model(pay).Update("status", target).Error; err != nil {
		return err
	}
	s.log.Info("payment status updated",
		zap.String("payment_id", pay.ID.String()),
		zap.String("status", target))
	return nil
}

// sendReceipt is a best-effort side effect; failures are logged, never
// propagated to the webhook response.
func (s *Service) sendReceipt(pay *billing.Payment) {
	var user users.User
	if err := s.db.First(&user, "id = ?", pay.UserID).Error; err != nil {
		s.log.Warn("receipt: owner lookup failed", zap.Error(err))
		return
	}
	txID := pay.ID.String()
	if pay.TransactionID != nil {
		txID = *pay.TransactionID
	}
	if err := s.mail.SendReceipt(user.Email, txID, pay.Amount); err != nil {
		s.log.Warn("receipt email failed",
			zap.String("payment_id", pay.ID.String()), zap.Error(err))
	}
}

type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Method string
	SortBy string
	Order  string
}

// Page of payments plus the pagination envelope the API returns.
type Page struct {
	Payments []billing.Payment `json:"payments"`
	Total    int64             `json:"total"`
	PageNum  int               `json:"page"`
	Limit    int               `json:"limit"`
	Pages    int               `json:"pages"`
}

// GetAll lists payments with filter/sort/paginate. An empty filtered
// page is surfaced as NotFound, matching the established API contract.
func (s *Service) GetAll(q ListQuery) (*Page, error) {
	db := s.db.Model(&billing.Payment{})
	if q.Status != "" {
		if !billing.ValidStatus(q.Status) {
			return nil, apperr.Invalid("unknown payment status %q", q.Status)
		}
		db = db.Where("status = ?", q.Status)
	}
	if q.Method != "" {
		if !billing.ValidMethod(q.Method) {
			return nil, apperr.Invalid("unknown payment method %q", q.Method)
		}
		db = db.Where("method = ?", q.Method)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, err
	}

	sortBy := "payment_date"
	switch q.SortBy {
	case "payment_date", "amount", "status", "created_at":
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

	var out []billing.Payment
	if err := db.Order(sortBy + " " + order).
		Offset((page - 1) * limit).Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, apperr.NotFound("no payments found")
	}

	return &Page{
		Payments: out,
		Total:    total,
		PageNum:  page,
		Limit:    limit,
		Pages:    int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *Service) GetByID(id uuid.UUID) (*billing.Payment, error) {
	var pay billing.Payment
	if err := s.db.First(&pay, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment %s", id)
		}
		return nil, err
	}
	return &pay, nil
}

func (s *Service) Delete(id uuid.UUID) error {
	res := s.db.Delete(&billing.Payment{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("payment %s", id)
	}
	return nil
}
