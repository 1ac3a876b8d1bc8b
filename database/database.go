package database

import (
	"fmt"
	"log"
	"os"

	"moviestream-app/internal/domain/billing"
	"moviestream-app/internal/domain/coupons"
	"moviestream-app/internal/domain/movies"
	"moviestream-app/internal/domain/plans"
	"moviestream-app/internal/domain/subscriptions"
	"moviestream-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	// ✅ REQUIRED for UUID generation
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Fatal("❌ Failed to enable pgcrypto extension:", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// Migrate runs AutoMigrate for every domain model. Split out so the
// integration tests can migrate their own database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&plans.Plan{},
		&coupons.Coupon{},
		&subscriptions.Subscription{},
		&billing.Payment{},

		// catalog
		&movies.Genre{},
		&movies.Person{},
		&movies.Movie{},
		&movies.MoviePerson{},
	); err != nil {
		return err
	}

	// One active subscription per user, enforced at the database level
	// on top of the guarded create.
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_subscription_per_user
		ON subscriptions (user_id) WHERE is_active`).Error
}
