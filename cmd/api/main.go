package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rmedina/erp-admin-api/docs" // Swagger docs
	"github.com/rmedina/erp-admin-api/internal/config"
	"github.com/rmedina/erp-admin-api/internal/database"
	"github.com/rmedina/erp-admin-api/internal/handlers"
	"github.com/rmedina/erp-admin-api/internal/jobs"
	"github.com/rmedina/erp-admin-api/internal/middleware"
	"github.com/rmedina/erp-admin-api/internal/models"
	"github.com/rmedina/erp-admin-api/internal/repository"
	"github.com/rmedina/erp-admin-api/internal/services"
	"github.com/rmedina/erp-admin-api/pkg/logger"
)

// @title ERP Admin API
// @version 1.0
// @description Administrative backend for account, role and profile management

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize repositories and services
	repos := repository.NewRepositories(db)
	svcs := services.NewServices(repos, cfg)

	// Role catalog is safe to seed on every boot
	if err := svcs.Role.EnsureDefaultRoles(context.Background()); err != nil {
		logger.Error("Failed to seed role catalog", "error", err)
		os.Exit(1)
	}

	// Initialize background worker
	worker := jobs.NewWorker(2)
	scheduleJobs(worker, svcs, cfg)

	// Initialize handlers
	h := handlers.NewHandlers(svcs)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Redirect root to swagger
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		// Swagger documentation
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		v1.POST("/auth/login", h.Auth.Login)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.POST("/auth/logout", h.Auth.Logout)
			protected.GET("/profile", h.Auth.Profile)
			protected.GET("/sessions", h.Auth.Sessions)
			protected.GET("/roles", h.Role.Index)

			// Admin-only routes: account management
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/users", h.Account.Index)
				admin.POST("/users", h.Account.Create)
				admin.GET("/users/export", h.Account.Export)
				admin.GET("/users/:user_id", h.Account.Show)
				admin.PUT("/users/:user_id", h.Account.Update)
				admin.PATCH("/users/:user_id", h.Account.Update)
				admin.DELETE("/users/:user_id", h.Account.Delete)
				admin.PUT("/users/:user_id/activate", h.Account.Activate)
				admin.PUT("/users/:user_id/deactivate", h.Account.Deactivate)
				admin.PUT("/users/:user_id/reset_password", h.Account.ResetPassword)
				admin.DELETE("/roles/:role_id", h.Role.Destroy)
			}

			// Audit trail is readable by admins and auditors
			audit := protected.Group("")
			audit.Use(middleware.RequireRole(models.RoleAdmin, models.RoleAudit))
			{
				audit.GET("/audits", h.Audit.Index)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services, cfg *config.Config) {
	maxIdle := time.Duration(cfg.SessionMaxIdleDays) * 24 * time.Hour

	// End login sessions with no recent activity once a day
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping stale sessions...")
		return svcs.Auth.SweepStaleSessions(ctx, maxIdle)
	})

	logger.Info("Scheduled recurring jobs")
}
