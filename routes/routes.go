package routes

import (
	"net/http"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"github.com/housefit/apartment-management-backend/internal/booking"
	"github.com/housefit/apartment-management-backend/internal/employee"
	"github.com/housefit/apartment-management-backend/internal/estimate"
	"github.com/housefit/apartment-management-backend/internal/leave"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/payment"
	"github.com/housefit/apartment-management-backend/internal/problem"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/internal/reports"
	"github.com/housefit/apartment-management-backend/internal/tree"
	"github.com/housefit/apartment-management-backend/middleware"
	"github.com/housefit/apartment-management-backend/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/housefit/apartment-management-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Infra carries the connections opened in main. Redis and FCM are nil when
// unavailable.
type Infra struct {
	DB         *gorm.DB
	Log        *zap.Logger
	Redis      *redis.Client
	FCM        *messaging.Client
	Dispatcher notification.Dispatcher
}

// Services exposes what main needs after routing is set up.
type Services struct {
	Auth  auth.Service
	Trees tree.Service
}

var startedAt = time.Now()

func Setup(r *gin.Engine, cfg *config.Config, infra Infra) *Services {
	db, log := infra.DB, infra.Log

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC(),
			"uptime":    time.Since(startedAt).Seconds(),
		})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax))
	api.Use(middleware.AuditMiddleware())

	// ========== Shared infrastructure ==========
	var pubsub notification.Publisher = notification.NewNopPubSub()
	var subscriber notification.Subscriber = notification.NewNopPubSub()
	resetStore := auth.NewMemoryTokenStore()
	if infra.Redis != nil {
		rps := notification.NewRedisPubSub(infra.Redis)
		pubsub, subscriber = rps, rps
		resetStore = auth.NewRedisTokenStore(infra.Redis)
	}
	uploader := utils.NewUploader(cfg)

	// ========== Audit Log ==========
	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Notifications ==========
	notificationSvc := notification.NewService(notification.NewRepository(db), pubsub,
		notification.NewPusher(infra.FCM), infra.Dispatcher, auditSvc, log)
	notificationHandler := notification.NewHandler(notificationSvc, subscriber)

	// ========== Auth ==========
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, resetStore, notificationSvc, auditSvc, cfg, log)
	authHandler := auth.NewHandler(authSvc, uploader)
	requireAuth := middleware.AuthMiddleware(authSvc)

	// ========== Domain ==========
	propertySvc := property.NewService(property.NewRepository(db), auditSvc, log)
	propertyHandler := property.NewHandler(propertySvc)

	billingSvc := billing.NewService(billing.NewRepository(db), propertySvc, authRepo, notificationSvc, auditSvc, log)
	billingHandler := billing.NewHandler(billingSvc)

	paymentHandler := payment.NewHandler(
		payment.NewService(payment.NewRepository(db), authRepo, notificationSvc, auditSvc, log))

	bookingHandler := booking.NewHandler(
		booking.NewService(booking.NewRepository(db), propertySvc, notificationSvc, auditSvc, log))

	leaveHandler := leave.NewHandler(
		leave.NewService(leave.NewRepository(db), propertySvc, notificationSvc, auditSvc, log))

	employeeRepo := employee.NewRepository(db)
	employeeHandler := employee.NewHandler(employee.NewService(employeeRepo, notificationSvc, auditSvc, log))

	problemHandler := problem.NewHandler(
		problem.NewService(problem.NewRepository(db), authRepo, employeeRepo, notificationSvc, auditSvc, log), uploader)

	estimateSvc := estimate.NewService(estimate.NewOllamaClient(cfg, log), propertySvc, log)
	estimateHandler := estimate.NewHandler(estimateSvc, cfg.OllamaURL)

	treeSvc := tree.NewService(tree.NewRepository(db), estimateSvc, billingSvc, notificationSvc, auditSvc, log,
		cfg.TreeRewardPoints, cfg.TopRewardDiscount)
	treeHandler := tree.NewHandler(treeSvc, uploader)

	reportsHandler := reports.NewHandler(
		reports.NewService(reports.NewRepository(db), reports.NewExporter(), auditSvc, log))

	can := middleware.RequireCapability

	// ========== Auth ==========
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/refresh", authHandler.Refresh)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)

		authRoutes.POST("/logout", requireAuth, authHandler.Logout)
		authRoutes.GET("/me", requireAuth, authHandler.Me)
		authRoutes.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		authRoutes.PUT("/profile/image", requireAuth, authHandler.UpdateProfileImage)
	}

	// ========== Property ==========
	flats := api.Group("/flats")
	{
		flats.GET("", propertyHandler.ListFlats)
		flats.GET("/search", propertyHandler.SearchFlats)
		flats.GET("/my-flats", requireAuth, can(middleware.CapManageOwnFlats), propertyHandler.MyFlats)
		flats.PUT("/my-flats/:id/fare", requireAuth, can(middleware.CapManageOwnFlats), propertyHandler.UpdateFare)
		flats.GET("/:id", propertyHandler.GetFlat)
	}
	buildings := api.Group("/buildings")
	{
		buildings.GET("", propertyHandler.ListBuildings)
		buildings.GET("/:id", propertyHandler.GetBuilding)
	}

	// ========== Bills & Payments ==========
	bills := api.Group("/bills", requireAuth)
	{
		bills.GET("/my-bills", can(middleware.CapViewOwnBills), billingHandler.MyBills)
		bills.POST("/generate", can(middleware.CapGenerateBills), billingHandler.Generate)
		bills.GET("/:id", billingHandler.GetBill)
	}
	payments := api.Group("/payments", requireAuth)
	{
		payments.POST("", can(middleware.CapSubmitPayment), paymentHandler.Submit)
		payments.GET("/my-payments", paymentHandler.MyPayments)
		payments.GET("/:id", paymentHandler.GetPayment)
	}

	// ========== Workflow requests ==========
	bookings := api.Group("/bookings", requireAuth)
	{
		bookings.POST("", can(middleware.CapSubmitBooking), bookingHandler.Submit)
		bookings.GET("/my-bookings", bookingHandler.MyBookings)
	}
	leaves := api.Group("/leave", requireAuth)
	{
		leaves.POST("", can(middleware.CapSubmitLeave), leaveHandler.Submit)
		leaves.GET("/my-requests", leaveHandler.MyRequests)
	}
	problems := api.Group("/problems", requireAuth)
	{
		problems.POST("", problemHandler.Submit)
		problems.GET("/my-reports", problemHandler.MyReports)
		problems.GET("/:id", problemHandler.Get)
		problems.PUT("/:id/status", can(middleware.CapUpdateProblem), problemHandler.UpdateStatus)
	}
	trees := api.Group("/trees")
	{
		trees.POST("/submit", requireAuth, can(middleware.CapSubmitTree), treeHandler.Submit)
		trees.GET("/my-submissions", requireAuth, treeHandler.MySubmissions)
		trees.GET("/leaderboard", treeHandler.Leaderboard)
		trees.GET("/leaderboard/:month", treeHandler.Leaderboard)
	}
	employees := api.Group("/employees", requireAuth, can(middleware.CapEmployeeSelf))
	{
		employees.GET("/profile", employeeHandler.Profile)
		employees.POST("/salary-raise", employeeHandler.RequestRaise)
		employees.GET("/salary-raises", employeeHandler.MyRaises)
		employees.GET("/problems", problemHandler.AssignedToMe)
	}

	// ========== Notifications ==========
	notifications := api.Group("/notifications")
	{
		notifications.GET("/stream", middleware.StreamAuthMiddleware(authSvc), notificationHandler.Stream)

		authed := notifications.Group("", requireAuth)
		authed.GET("", notificationHandler.List)
		authed.PUT("/read-all", notificationHandler.MarkAllAsRead)
		authed.PUT("/:id/read", notificationHandler.MarkAsRead)
		authed.POST("/devices", notificationHandler.RegisterDevice)
		authed.DELETE("/devices/:token", notificationHandler.RemoveDevice)
	}

	// ========== Estimation ==========
	predict := api.Group("/predict")
	{
		predict.POST("/flat-price", estimateHandler.FlatPrice)
		predict.POST("/area-suggestion", estimateHandler.AreaSuggestion)
		predict.POST("/budget-from-area", estimateHandler.BudgetFromArea)
		predict.GET("/health", estimateHandler.Health)
	}

	api.POST("/upload/:field", requireAuth, uploadHandler(uploader))

	// ========== Admin ==========
	admin := api.Group("/admin", requireAuth)
	{
		props := admin.Group("", can(middleware.CapManageProperty))
		props.POST("/buildings", propertyHandler.CreateBuilding)
		props.GET("/buildings", propertyHandler.ListBuildings)
		props.GET("/buildings/:id", propertyHandler.GetBuilding)
		props.PUT("/buildings/:id", propertyHandler.UpdateBuilding)
		props.POST("/flats", propertyHandler.CreateFlat)
		props.PUT("/flats/:id", propertyHandler.UpdateFlat)
		props.DELETE("/flats/:id", propertyHandler.DeleteFlat)
		props.PUT("/flats/:id/tenant", propertyHandler.AssignTenant)

		users := admin.Group("/users", can(middleware.CapManageUsers))
		users.GET("", authHandler.ListUsers)
		users.PUT("/:id/role", authHandler.UpdateUser)
		users.DELETE("/:id", authHandler.DeleteUser)

		admin.GET("/bills", can(middleware.CapGenerateBills), billingHandler.List)
		admin.PUT("/bills/:id", can(middleware.CapGenerateBills), billingHandler.Update)

		verify := admin.Group("/payments", can(middleware.CapVerifyPayments))
		verify.GET("/pending", paymentHandler.Pending)
		verify.POST("/:id/verify", paymentHandler.Verify)
		verify.POST("/:id/reject", paymentHandler.Reject)

		staff := admin.Group("", can(middleware.CapManageEmployees))
		staff.POST("/employees", employeeHandler.Create)
		staff.GET("/employees", employeeHandler.List)
		staff.PUT("/employees/:id", employeeHandler.Update)
		staff.DELETE("/employees/:id", employeeHandler.Delete)
		staff.GET("/salary-raises", employeeHandler.ListRaises)
		staff.POST("/salary-raises/:id/approve", employeeHandler.ApproveRaise)
		staff.POST("/salary-raises/:id/reject", employeeHandler.RejectRaise)

		review := admin.Group("", can(middleware.CapReviewRequests))
		review.GET("/bookings", bookingHandler.List)
		review.POST("/bookings/:id/approve", bookingHandler.Approve)
		review.POST("/bookings/:id/reject", bookingHandler.Reject)
		review.GET("/leave", leaveHandler.List)
		review.POST("/leave/:id/approve", leaveHandler.Approve)
		review.POST("/leave/:id/reject", leaveHandler.Reject)
		review.GET("/trees", treeHandler.List)
		review.POST("/trees/:id/approve", treeHandler.Approve)
		review.POST("/trees/:id/reject", treeHandler.Reject)
		review.GET("/problems", problemHandler.List)
		review.POST("/problems/:id/assign", problemHandler.Assign)

		admin.POST("/trees/award-top", can(middleware.CapAwardTopReward), treeHandler.AwardTop)
		admin.POST("/notifications/broadcast", can(middleware.CapBroadcast), notificationHandler.Broadcast)
		admin.GET("/reports/bills", can(middleware.CapExportReports), reportsHandler.Bills)
		admin.GET("/reports/payments", can(middleware.CapExportReports), reportsHandler.Payments)

		audit := admin.Group("/audit-logs", can(middleware.CapViewAuditLogs))
		audit.GET("", auditHandler.GetAuditLogs)
		audit.GET("/:id", auditHandler.GetAuditLogByID)
	}

	return &Services{Auth: authSvc, Trees: treeSvc}
}
