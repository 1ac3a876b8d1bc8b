package coupon

import (
	"errors"
	"testing"
	"time"

	"moviestream-app/internal/domain/apperr"
	"moviestream-app/internal/service/servicetest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)
	servicetest.SeedCoupon(t, db, "SAVE10", 10)

	cp, err := svc.Validate("SAVE10")
	require.NoError(t, err)
	assert.InDelta(t, 10, cp.DiscountPercent, 0.001)

	_, err = svc.Validate("NOPE")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	expired, err := svc.Create(CreateInput{
		Code:            "OLD",
		DiscountPercent: 5,
		ValidFrom:       time.Now().AddDate(0, -2, 0),
		ValidTo:         time.Now().AddDate(0, -1, 0),
	})
	require.NoError(t, err)
	_, err = svc.Validate(expired.Code)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	off := false
	_, err = svc.Update(expired.ID, UpdateInput{IsActive: &off})
	require.NoError(t, err)
	_, err = svc.Validate(expired.Code)
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

func TestCreateRejectsBadInput(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)

	window := func(in CreateInput) CreateInput {
		in.ValidFrom = time.Now()
		in.ValidTo = time.Now().AddDate(0, 1, 0)
		return in
	}

	_, err := svc.Create(window(CreateInput{Code: "  ", DiscountPercent: 10}))
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.Create(window(CreateInput{Code: "TOOMUCH", DiscountPercent: 120}))
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.Create(CreateInput{
		Code:            "BACKWARDS",
		DiscountPercent: 10,
		ValidFrom:       time.Now(),
		ValidTo:         time.Now().AddDate(0, 0, -1),
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = svc.Create(window(CreateInput{Code: "DUP", DiscountPercent: 10}))
	require.NoError(t, err)
	_, err = svc.Create(window(CreateInput{Code: "DUP", DiscountPercent: 20}))
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestIncrementUseCount(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)
	servicetest.SeedCoupon(t, db, "BUMP", 10)

	cp, err := svc.IncrementUseCount("BUMP")
	require.NoError(t, err)
	assert.Equal(t, 1, cp.UseCount)

	cp, err = svc.IncrementUseCount("BUMP")
	require.NoError(t, err)
	assert.Equal(t, 2, cp.UseCount)

	_, err = svc.IncrementUseCount("GONE")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestGetByIDOrCode(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)
	seeded := servicetest.SeedCoupon(t, db, "LOOKUP", 15)

	byID, err := svc.Get(seeded.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "LOOKUP", byID.Code)

	byCode, err := svc.Get("LOOKUP")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byCode.ID)

	_, err = svc.Get(uuid.New().String())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestListFilters(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)
	servicetest.SeedCoupon(t, db, "SUMMER20", 20)
	servicetest.SeedCoupon(t, db, "WINTER30", 30)

	all, total, err := svc.List(ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	hits, total, err := svc.List(ListQuery{Search: "summer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hits, 1)
	assert.Equal(t, "SUMMER20", hits[0].Code)

	off := false
	_, err = svc.Update(hits[0].ID, UpdateInput{IsActive: &off})
	require.NoError(t, err)

	active := true
	hits, total, err = svc.List(ListQuery{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hits, 1)
	assert.Equal(t, "WINTER30", hits[0].Code)
}

func TestDelete(t *testing.T) {
	db := servicetest.OpenDB(t)
	svc := New(db)
	seeded := servicetest.SeedCoupon(t, db, "BYE", 10)

	require.NoError(t, svc.Delete(seeded.ID))
	assert.True(t, errors.Is(svc.Delete(seeded.ID), apperr.ErrNotFound))
}
