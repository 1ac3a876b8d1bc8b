package payment

import (
	"errors"
	"testing"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/domain/billing"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/coupon"
	"moviestream-app/internal/service/servicetest"
	"moviestream-app/internal/service/subscription"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeProvider struct {
	enabled  bool
	sessions int
	fail     bool
}

func (f *fakeProvider) Enabled() bool { return f.enabled }

func (f *fakeProvider) CreateCheckoutSession(p CheckoutParams) (*CheckoutSession, error) {
	if f.fail {
		return nil, errors.New("provider unreachable")
	}
	f.sessions++
	return &CheckoutSession{
		SessionID:       "cs_test_1",
		RedirectURL:     "https://checkout.example.com/cs_test_1",
		PaymentIntentID: "pi_test_1",
	}, nil
}

func (f *fakeProvider) VerifyWebhook(payload []byte, sig string) (*Event, error) {
	return nil, errors.New("not used in service tests")
}

type fakePaymentMailer struct {
	receipts []string
}

func (f *fakePaymentMailer) SendReceipt(toEmail, transactionID string, amount float64) error {
	f.receipts = append(f.receipts, transactionID)
	return nil
}

type fixture struct {
	svc      *Service
	subs     *subscription.Service
	db       *gorm.DB
	provider *fakeProvider
	mail     *fakePaymentMailer
	user     *users.User
	plan     *plans.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := servicetest.OpenDB(t)

	subs := subscription.New(db, coupon.New(db), nopReminderMailer{}, zap.NewNop())
	provider := &fakeProvider{enabled: true}
	mail := &fakePaymentMailer{}
	svc := New(db, subs, provider, mail, zap.NewNop(), "http://localhost:5173")

	return &fixture{
		svc:      svc,
		subs:     subs,
		db:       db,
		provider: provider,
		mail:     mail,
		user:     servicetest.SeedUser(t, db, "ada@example.com"),
		plan:     servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30),
	}
}

type nopReminderMailer struct{}

func (nopReminderMailer) SendRenewalReminder(string, string, int) error { return nil }

func (f *fixture) pendingSubscription(t *testing.T, couponCode string) uuid.UUID {
	t.Helper()
	sub, err := f.subs.CreatePending(f.user.ID, f.plan.ID, couponCode)
	require.NoError(t, err)
	return sub.ID
}

func TestCreateCardPaymentOpensCheckoutSession(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, billing.StatusPending, result.Payment.Status)
	assert.Equal(t, "monthly", result.Payment.BillingCycle)
	assert.InDelta(t, 20.00, result.Payment.Amount, 0.001)
	require.NotNil(t, result.SessionID)
	assert.Equal(t, "cs_test_1", *result.SessionID)
	require.NotNil(t, result.SessionURL)
	assert.Equal(t, 1, f.provider.sessions)
}

func TestCreateNonCardPaymentStaysPendingWithoutSession(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodWallet, f.user.ID)
	require.NoError(t, err)

	assert.Equal(t, billing.StatusPending, result.Payment.Status)
	assert.Nil(t, result.SessionID)
	assert.Nil(t, result.Payment.CheckoutSessionID)
	assert.Equal(t, 0, f.provider.sessions)
}

func TestCreateCardPaymentWithoutProviderStaysPending(t *testing.T) {
	f := newFixture(t)
	f.provider.enabled = false
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusPending, result.Payment.Status)
	assert.Nil(t, result.SessionID)
}

func TestCreateGuards(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	_, err := f.svc.Create(subID, "BARTER", f.user.ID)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = f.svc.Create(uuid.New(), billing.MethodCard, f.user.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	stranger := servicetest.SeedUser(t, f.db, "eve@example.com")
	_, err = f.svc.Create(subID, billing.MethodCard, stranger.ID)
	assert.True(t, errors.Is(err, apperr.ErrForbidden))

	_, err = f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(subID, billing.MethodCard, f.user.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestCreateSurfacesProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.fail = true
	subID := f.pendingSubscription(t, "")

	_, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	assert.True(t, errors.Is(err, apperr.ErrExternalService))

	// Nothing was persisted for the failed attempt.
	var count int64
	f.db.Model(&billing.Payment{}).Where("subscription_id = ?", subID).Count(&count)
	assert.Zero(t, count)
}

func TestCheckoutCompletedActivatesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	servicetest.SeedCoupon(t, f.db, "SAVE10", 10)
	subID := f.pendingSubscription(t, "SAVE10")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 18.00, result.Payment.Amount, 0.001)

	ev := &Event{
		Kind:              EventCheckoutCompleted,
		CheckoutSessionID: "cs_test_1",
		PaymentIntentID:   "pi_settled",
	}
	require.NoError(t, f.svc.HandleProviderEvent(ev))

	pay, err := f.svc.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusSuccess, pay.Status)
	require.NotNil(t, pay.TransactionID)
	assert.Equal(t, "pi_settled", *pay.TransactionID)

	sub, err := f.subs.GetByID(subID)
	require.NoError(t, err)
	assert.True(t, sub.IsActive)
	require.NotNil(t, sub.Coupon)
	assert.Equal(t, 1, sub.Coupon.UseCount)
	assert.Len(t, f.mail.receipts, 1)

	// Duplicate delivery: no second activation, no second increment,
	// no second receipt.
	require.NoError(t, f.svc.HandleProviderEvent(ev))

	sub, err = f.subs.GetByID(subID)
	require.NoError(t, err)
	assert.Equal(t, 1, sub.Coupon.UseCount)
	assert.Len(t, f.mail.receipts, 1)
}

func TestIntentSucceededForUnknownIntentIsBenign(t *testing.T) {
	f := newFixture(t)
	err := f.svc.HandleProviderEvent(&Event{
		Kind:            EventIntentSucceeded,
		PaymentIntentID: "pi_unknown",
	})
	assert.NoError(t, err)
}

func TestIntentFailedMarksPaymentFailed(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleProviderEvent(&Event{
		Kind:            EventIntentFailed,
		PaymentIntentID: "pi_test_1",
	}))

	pay, err := f.svc.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusFailed, pay.Status)

	sub, err := f.subs.GetByID(subID)
	require.NoError(t, err)
	assert.False(t, sub.IsActive)

	// Unknown intent on a failure event is a hard error so the
	// provider keeps retrying.
	err = f.svc.HandleProviderEvent(&Event{
		Kind:            EventIntentFailed,
		PaymentIntentID: "pi_missing",
	})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCheckoutExpiredMarksPaymentExpired(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleProviderEvent(&Event{
		Kind:              EventCheckoutExpired,
		CheckoutSessionID: "cs_test_1",
	}))

	pay, err := f.svc.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusExpired, pay.Status)
}

func TestChargeRefundedAfterSuccess(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.HandleProviderEvent(&Event{
		Kind:              EventCheckoutCompleted,
		CheckoutSessionID: "cs_test_1",
		PaymentIntentID:   "pi_settled",
	}))
	require.NoError(t, f.svc.HandleProviderEvent(&Event{
		Kind:            EventChargeRefunded,
		PaymentIntentID: "pi_settled",
	}))

	pay, err := f.svc.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusRefunded, pay.Status)

	// REFUNDED is terminal; a stray success replay cannot resurrect it.
	require.NoError(t, f.svc.HandleProviderEvent(&Event{
		Kind:              EventCheckoutCompleted,
		CheckoutSessionID: "cs_test_1",
		PaymentIntentID:   "pi_settled",
	}))
	pay, err = f.svc.GetByID(result.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.StatusRefunded, pay.Status)
}

func TestGetAllFiltersAndNotFoundOnEmpty(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	_, err := f.svc.Create(subID, billing.MethodCard, f.user.ID)
	require.NoError(t, err)

	page, err := f.svc.GetAll(ListQuery{Status: billing.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Len(t, page.Payments, 1)

	_, err = f.svc.GetAll(ListQuery{Status: billing.StatusRefunded})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = f.svc.GetAll(ListQuery{Status: "NOT_A_STATUS"})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestDeletePayment(t *testing.T) {
	f := newFixture(t)
	subID := f.pendingSubscription(t, "")

	result, err := f.svc.Create(subID, billing.MethodWallet, f.user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(result.Payment.ID))
	err = f.svc.Delete(result.Payment.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
