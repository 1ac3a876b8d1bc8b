package subscription

import (
	"errors"
	"testing"
	"time"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/service/coupon"
	"moviestream-app/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reminderCall struct {
	Email    string
	DaysLeft int
}

type fakeMailer struct {
	reminders []reminderCall
	fail      bool
}

func (f *fakeMailer) SendRenewalReminder(toEmail, firstName string, daysRemaining int) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.reminders = append(f.reminders, reminderCall{Email: toEmail, DaysLeft: daysRemaining})
	return nil
}

func newService(t *testing.T) (*Service, *gorm.DB, *fakeMailer) {
	t.Helper()
	db := servicetest.OpenDB(t)
	mail := &fakeMailer{}
	svc := New(db, coupon.New(db), mail, zap.NewNop())
	return svc, db, mail
}

func TestCreatePendingFreezesCouponDiscount(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)
	servicetest.SeedCoupon(t, db, "SAVE10", 10)

	sub, err := svc.CreatePending(user.ID, plan.ID, "SAVE10")
	require.NoError(t, err)

	assert.False(t, sub.IsActive)
	assert.Nil(t, sub.StartDate)
	assert.Nil(t, sub.EndDate)
	assert.InDelta(t, 2.00, sub.DiscountAmount, 0.001)
	assert.InDelta(t, 18.00, sub.FinalPrice, 0.001)
}

func TestCreatePendingRejectsUnknownAndUnusableCoupons(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)

	_, err := svc.CreatePending(user.ID, plan.ID, "NOPE")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	expired := servicetest.SeedCoupon(t, db, "OLD", 10)
	require.NoError(t, db.Model(expired).
		Update("valid_to", time.Now().AddDate(0, 0, -40)).Error)

	_, err = svc.CreatePending(user.ID, plan.ID, "OLD")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestCreatePendingConflictsWithActiveSubscription(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)

	sub, err := svc.CreatePending(user.ID, plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	_, err = svc.CreatePending(user.ID, plan.ID, "")
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestActivateSetsDatesTierAndCouponUse(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)
	cp := servicetest.SeedCoupon(t, db, "SAVE10", 10)

	sub, err := svc.CreatePending(user.ID, plan.ID, "SAVE10")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	got, err := svc.GetByID(sub.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.WithinDuration(t,
		got.StartDate.AddDate(0, 0, 30), *got.EndDate, time.Second)

	var owner users.User
	require.NoError(t, db.First(&owner, "id = ?", user.ID).Error)
	assert.Equal(t, users.TierBasic, owner.SubscriptionType)

	require.NoError(t, db.First(cp, "id = ?", cp.ID).Error)
	assert.Equal(t, 1, cp.UseCount)

	// A second activation is a conflict, and the use count stays put.
	err = svc.Activate(sub.ID)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
	require.NoError(t, db.First(cp, "id = ?", cp.ID).Error)
	assert.Equal(t, 1, cp.UseCount)
}

func TestCancelDropsTierToFree(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierPremium, 35.00, 30)

	sub, err := svc.CreatePending(user.ID, plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	out, err := svc.Cancel(sub.ID)
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	var owner users.User
	require.NoError(t, db.First(&owner, "id = ?", user.ID).Error)
	assert.Equal(t, users.TierFree, owner.SubscriptionType)
}

func TestChangePlanReanchorsEndDate(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	monthly := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)
	yearly := servicetest.SeedPlan(t, db, users.TierPremium, 200.00, 365)

	sub, err := svc.CreatePending(user.ID, monthly.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	before, err := svc.GetByID(sub.ID)
	require.NoError(t, err)

	out, err := svc.ChangePlan(sub.ID, yearly.ID)
	require.NoError(t, err)
	require.NotNil(t, out.EndDate)
	assert.WithinDuration(t,
		before.StartDate.AddDate(0, 0, 365), *out.EndDate, time.Second)

	var owner users.User
	require.NoError(t, db.First(&owner, "id = ?", user.ID).Error)
	assert.Equal(t, users.TierPremium, owner.SubscriptionType)
}

func TestExpireDueIsIdempotent(t *testing.T) {
	svc, db, _ := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)

	sub, err := svc.CreatePending(user.ID, plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	// A sweep before the end date expires nothing.
	n, err := svc.ExpireDue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	future := time.Now().AddDate(0, 0, 31)
	n, err = svc.ExpireDue(future)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.GetByID(sub.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	var owner users.User
	require.NoError(t, db.First(&owner, "id = ?", user.ID).Error)
	assert.Equal(t, users.TierFree, owner.SubscriptionType)

	// Re-running the sweep finds nothing left to expire.
	n, err = svc.ExpireDue(future)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNotifyExpiringSoonSendsOnce(t *testing.T) {
	svc, db, mail := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)

	sub, err := svc.CreatePending(user.ID, plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	got, err := svc.GetByID(sub.ID)
	require.NoError(t, err)

	// Sweep with 2 days remaining, inside the 3-day window.
	at := got.EndDate.AddDate(0, 0, -2)
	n, err := svc.NotifyExpiringSoon(at)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, mail.reminders, 1)
	assert.Equal(t, "ada@example.com", mail.reminders[0].Email)
	assert.Equal(t, 2, mail.reminders[0].DaysLeft)

	// Same sweep again: reminder_sent_at suppresses the duplicate.
	n, err = svc.NotifyExpiringSoon(at)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, mail.reminders, 1)
}

func TestNotifyExpiringSoonRetriesAfterSendFailure(t *testing.T) {
	svc, db, mail := newService(t)

	user := servicetest.SeedUser(t, db, "ada@example.com")
	plan := servicetest.SeedPlan(t, db, users.TierBasic, 20.00, 30)

	sub, err := svc.CreatePending(user.ID, plan.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(sub.ID))

	got, err := svc.GetByID(sub.ID)
	require.NoError(t, err)
	at := got.EndDate.AddDate(0, 0, -2)

	mail.fail = true
	n, err := svc.NotifyExpiringSoon(at)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var row subscriptions.Subscription
	require.NoError(t, db.First(&row, "id = ?", sub.ID).Error)
	assert.Nil(t, row.ReminderSentAt)

	mail.fail = false
	n, err = svc.NotifyExpiringSoon(at)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
