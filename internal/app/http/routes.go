package routes

import (
	"net/http"

	adminapi "moviestream-app/internal/api/admin"
	authapi "moviestream-app/internal/api/auth"
	"moviestream-app/internal/api/couponsapi"
	"moviestream-app/internal/api/genresapi"
	"moviestream-app/internal/api/moviesapi"
	"moviestream-app/internal/api/paymentsapi"
	"moviestream-app/internal/api/paymentwebhook"
	"moviestream-app/internal/api/peopleapi"
	plansapi "moviestream-app/internal/api/plans"
	"moviestream-app/internal/api/subscriptionsapi"
	usersapi "moviestream-app/internal/api/users"
	"moviestream-app/internal/app/http/middleware"
	"moviestream-app/internal/domain/users"
	"moviestream-app/internal/scheduler"
	"moviestream-app/internal/service/coupon"
	"moviestream-app/internal/service/payment"
	"moviestream-app/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries the constructed services into route registration.
type Deps struct {
	Coupons  *coupon.Service
	Subs     *subscription.Service
	Payments *payment.Service
	Provider payment.Provider
	Sched    *scheduler.Scheduler
	Log      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Webhook takes the raw body; it must bypass the sanitizer.
	r.POST("/payment/webhook", paymentwebhook.Handle(d.Payments, d.Provider, d.Log))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", usersapi.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	public.GET("/plans", plansapi.ListPlans)
	public.GET("/plans/:id", plansapi.GetPlan)
	public.GET("/movies", moviesapi.ListMovies)
	public.GET("/movies/:id", moviesapi.GetMovie)
	public.GET("/genres", genresapi.ListGenres)
	public.GET("/genres/:id", genresapi.GetGenre)
	public.GET("/people", peopleapi.ListPeople)
	public.GET("/people/:id", peopleapi.GetPerson)
	public.GET("/coupons/:code/validate", couponsapi.Validate(d.Coupons))

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	// POST takes a plan id, the rest take a subscription id.
	auth.POST("/subscription/:id", subscriptionsapi.Create(d.Subs))
	auth.GET("/subscription/:id", subscriptionsapi.Get(d.Subs))
	auth.GET("/subscription/user/:userID", subscriptionsapi.ListByUser(d.Subs))
	auth.POST("/subscription/:id/cancel", subscriptionsapi.Cancel(d.Subs))
	auth.POST("/subscription/:id/change-plan", subscriptionsapi.ChangePlan(d.Subs))

	auth.POST("/payment", paymentsapi.Create(d.Payments))
	auth.GET("/payment/single/:id", paymentsapi.Get(d.Payments))

	// Subscribed users
	subscribed := auth.Group("/")
	subscribed.Use(middleware.RequireActiveSubscription())
	subscribed.GET("/movies/:id/stream", moviesapi.GetMovie)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)

	admin.GET("/subscriptions", subscriptionsapi.List(d.Subs))
	admin.GET("/subscriptions/active", subscriptionsapi.ListActive(d.Subs))

	admin.GET("/payment/all", paymentsapi.GetAll(d.Payments))
	admin.POST("/payment/delete/:id", paymentsapi.Delete(d.Payments))

	admin.POST("/coupons", couponsapi.Create(d.Coupons))
	admin.GET("/coupons", couponsapi.List(d.Coupons))
	admin.GET("/coupons/:id", couponsapi.Get(d.Coupons))
	admin.PATCH("/coupons/:id", couponsapi.Update(d.Coupons))
	admin.DELETE("/coupons/:id", couponsapi.Delete(d.Coupons))
	admin.POST("/coupons/:id/increment", couponsapi.Increment(d.Coupons))

	admin.POST("/plans", plansapi.CreatePlan)
	admin.PATCH("/plans/:id", plansapi.UpdatePlan)
	admin.DELETE("/plans/:id", plansapi.DeletePlan)

	admin.POST("/movies", moviesapi.CreateMovie)
	admin.PATCH("/movies/:id", moviesapi.UpdateMovie)
	admin.DELETE("/movies/:id", moviesapi.DeleteMovie)
	admin.POST("/movies/:id/cast", moviesapi.AddCastMember)
	admin.DELETE("/movies/:id/cast/:personID/:role", moviesapi.RemoveCastMember)

	admin.POST("/genres", genresapi.CreateGenre)
	admin.PATCH("/genres/:id", genresapi.UpdateGenre)
	admin.DELETE("/genres/:id", genresapi.DeleteGenre)

	admin.POST("/people", peopleapi.CreatePerson)
	admin.PATCH("/people/:id", peopleapi.UpdatePerson)
	admin.DELETE("/people/:id", peopleapi.DeletePerson)

	admin.GET("/jobs", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Sched.Jobs())
	})
	admin.POST("/jobs/:name/run", func(c *gin.Context) {
		if err := d.Sched.RunNow(c.Param("name")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "done"})
	})
}
