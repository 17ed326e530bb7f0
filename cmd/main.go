package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/database"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"github.com/housefit/apartment-management-backend/internal/booking"
	"github.com/housefit/apartment-management-backend/internal/employee"
	"github.com/housefit/apartment-management-backend/internal/leave"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/internal/payment"
	"github.com/housefit/apartment-management-backend/internal/problem"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/internal/tree"
	"github.com/housefit/apartment-management-backend/middleware"
	"github.com/housefit/apartment-management-backend/routes"
	"github.com/housefit/apartment-management-backend/utils"
	"go.uber.org/zap"
)

// @title HouseFit Apartment Management API
// @version 1.0
// @description Buildings, flats, bills, bKash payments and resident workflows.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	log, err := utils.NewLogger(cfg.LogLevel, cfg.LogFormat, "housefit-api")
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := utils.RegisterValidators(); err != nil {
		log.Fatal("❌ Validator registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("❌ Database connection failed", zap.Error(err))
	}
	if err := database.Migrate(db, log,
		&auth.User{},
		&auth.RefreshToken{},
		&property.Building{},
		&property.Flat{},
		&billing.Bill{},
		&payment.Payment{},
		&booking.BookingRequest{},
		&leave.LeaveRequest{},
		&employee.Employee{},
		&employee.SalaryRaise{},
		&problem.ProblemReport{},
		&tree.TreeSubmission{},
		&notification.Notification{},
		&notification.DeviceToken{},
		&auditlog.AuditLog{},
	); err != nil {
		log.Fatal("❌ Migration failed", zap.Error(err))
	}

	infra := routes.Infra{DB: db, Log: log}

	// Init Redis
	if rdb, err := utils.NewRedisClient(ctx, cfg); err != nil {
		log.Warn("⚠️ Redis unavailable, live notifications and shared reset tokens disabled", zap.Error(err))
	} else {
		defer rdb.Close()
		infra.Redis = rdb
		log.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	// Email goes through Kafka when brokers are configured, otherwise it is
	// sent in-process.
	mailer := notification.NewMailer(cfg, log)
	if utils.KafkaEnabled(cfg) {
		writer := utils.NewKafkaWriter(cfg)
		defer writer.Close()
		infra.Dispatcher = notification.NewKafkaDispatcher(writer)
		go notification.RunEmailConsumer(ctx, utils.NewKafkaReader(cfg), mailer, log)
		log.Info("✅ Kafka email dispatch enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		infra.Dispatcher = notification.NewAsyncDispatcher(mailer, log)
	}

	// 🔥 Init Firebase
	if client, err := utils.NewFCMClient(ctx, cfg); err != nil {
		log.Warn("⚠️ Firebase initialization failed, push notifications disabled", zap.Error(err))
	} else if client != nil {
		infra.FCM = client
		log.Info("✅ Firebase Cloud Messaging enabled")
	} else {
		log.Info("ℹ️ Firebase Cloud Messaging not configured")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.MaxMultipartMemory = cfg.MaxFileSize

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("❌ Failed to create upload directory", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	services := routes.Setup(router, cfg, infra)

	if err := services.Auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("❌ Failed to seed admin", zap.Error(err))
	}

	scheduler, err := tree.StartRewardSchedule(cfg.TopRewardCron, services.Trees, log)
	if err != nil {
		log.Fatal("❌ Invalid TOP_REWARD_CRON", zap.String("spec", cfg.TopRewardCron), zap.Error(err))
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("🚀 Server starting",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Environment),
			zap.String("uploads", cfg.UploadDir),
			zap.String("ollama", cfg.OllamaURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("❌ Graceful shutdown failed", zap.Error(err))
	}
}
