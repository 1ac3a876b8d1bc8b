// Package servicetest holds shared fixtures for the service-layer
// integration tests. Tests skip unless TEST_DB_URL points at a
// disposable Postgres database.
package servicetest

import (
	"os"
	"testing"
	"time"

	"moviestream-app/database"
	"moviestream-app/internal/domain/coupons"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_URL")
	if dsn == "" {
		t.Skip("TEST_DB_URL not set, skipping database integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error)
	require.NoError(t, database.Migrate(db))

	// Each test starts from a clean slate.
	require.NoError(t, db.Exec(`TRUNCATE TABLE payments, subscriptions, coupons,
		movie_people, movie_genres, movies, genres, people,
		verification_tokens, plans, users CASCADE`).Error)

	return db
}

func SeedUser(t *testing.T, db *gorm.DB, email string) *users.User {
	t.Helper()
	u := users.User{
		ID:               uuid.New(),
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            email,
		AuthProvider:     "local",
		Role:             users.RoleUser,
		IsVerified:       true,
		SubscriptionType: users.TierFree,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func SeedPlan(t *testing.T, db *gorm.DB, name string, price float64, durationDays int) *plans.Plan {
	t.Helper()
	p := plans.Plan{
		ID:           uuid.New(),
		Name:         name,
		Price:        price,
		Currency:     "USD",
		DurationDays: durationDays,
		Description:  name + " plan",
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func SeedCoupon(t *testing.T, db *gorm.DB, code string, percent float64) *coupons.Coupon {
	t.Helper()
	now := time.Now()
	cp := coupons.Coupon{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: percent,
		ValidFrom:       now.AddDate(0, 0, -1),
		ValidTo:         now.AddDate(0, 0, 30),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&cp).Error)
	return &cp
}
