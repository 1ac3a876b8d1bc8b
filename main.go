package main

import (
	"os"
	"time"

	"moviestream-app/config"
	"moviestream-app/database"
	authapi "moviestream-app/internal/api/auth"
	routes "moviestream-app/internal/app/http"
	"moviestream-app/internal/infra/mailer"
	"moviestream-app/internal/infra/stripeprovider"
	"moviestream-app/internal/scheduler"
	"moviestream-app/internal/service/coupon"
	"moviestream-app/internal/service/payment"
	"moviestream-app/internal/service/subscription"
	"moviestream-app/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	log := logger.New(config.LOG_FILE, os.Getenv("APP_ENV") == "production")
	defer log.Sync()

	mail := mailer.New(config.SMTP_HOST, config.SMTP_PORT, config.SMTP_USER, config.SMTP_PASS, config.SMTP_FROM)
	authapi.Mail = mail

	provider := stripeprovider.New(config.STRIPE_SECRET_KEY, config.STRIPE_WEBHOOK_SECRET)

	coupons := coupon.New(database.DB)
	subs := subscription.New(database.DB, coupons, mail, log)
	subs.ReminderWindowDays = config.REMINDER_WINDOW_DAYS
	payments := payment.New(database.DB, subs, provider, mail, log, config.CLIENT_URL)

	sched := scheduler.New(log)
	sched.Register(&scheduler.Job{
		Name:     "expire-subscriptions",
		Schedule: scheduler.Every(config.SWEEP_INTERVAL),
		Handler: func(now time.Time) error {
			_, err := subs.ExpireDue(now)
			return err
		},
	})
	sched.Register(&scheduler.Job{
		Name:     "notify-expiring",
		Schedule: scheduler.Every(config.SWEEP_INTERVAL),
		Handler: func(now time.Time) error {
			_, err := subs.NotifyExpiringSoon(now)
			return err
		},
	})
	sched.Start()
	defer sched.Stop()

	r := gin.Default()

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Coupons:  coupons,
		Subs:     subs,
		Payments: payments,
		Provider: provider,
		Sched:    sched,
		Log:      log,
	})

	r.Run(":" + config.PORT)
}
