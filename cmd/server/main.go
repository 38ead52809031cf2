package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/fieldops/backend/internal/application/billing"
	directoryapp "github.com/fieldops/backend/internal/application/directory"
	identityapp "github.com/fieldops/backend/internal/application/identity"
	legacyapp "github.com/fieldops/backend/internal/application/legacy"
	pipelineapp "github.com/fieldops/backend/internal/application/pipeline"
	portalapp "github.com/fieldops/backend/internal/application/portal"
	workapp "github.com/fieldops/backend/internal/application/work"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/cache"
	"github.com/fieldops/backend/internal/infrastructure/config"
	"github.com/fieldops/backend/internal/infrastructure/legacy"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/infrastructure/payment"
	"github.com/fieldops/backend/internal/infrastructure/persistence"
	"github.com/fieldops/backend/internal/infrastructure/storage"
	"github.com/fieldops/backend/internal/infrastructure/telemetry"
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/fieldops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const appVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FieldOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", appVersion),
	)

	// Tracing (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics (no-op provider when disabled)
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Portal session store (Redis, or in-memory when Redis is disabled)
	sessionFactory := cache.NewSessionStoreFactory(cfg.Redis, cache.WithLogger(log))
	sessionStore, err := sessionFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create session store", zap.Error(err))
	}

	// Attachment storage (S3, or in-memory stub for dev)
	objectStore, err := storage.NewObjectStore(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to create object store", zap.Error(err))
	}

	// Repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	scheduleEventRepo := persistence.NewGormScheduleEventRepository(db.DB)
	estimateRepo := persistence.NewGormEstimateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	sequenceRepo := persistence.NewGormSequenceRepository(db.DB)
	opportunityRepo := persistence.NewGormOpportunityRepository(db.DB)
	stageHistoryRepo := persistence.NewGormStageHistoryRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	followUpRepo := persistence.NewGormFollowUpRepository(db.DB)
	messageRepo := persistence.NewGormMessageRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	userService := identityapp.NewUserService(userRepo)
	clientService := directoryapp.NewClientService(clientRepo, contactRepo)
	contactService := directoryapp.NewContactService(contactRepo, clientRepo)
	projectService := workapp.NewProjectService(projectRepo, taskRepo, clientRepo)
	taskService := workapp.NewTaskService(taskRepo, projectRepo)
	scheduleService := workapp.NewScheduleService(scheduleEventRepo)
	estimateService := billingapp.NewEstimateService(estimateRepo, invoiceRepo, sequenceRepo, clientRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, paymentRepo, sequenceRepo, clientRepo)
	attachmentService := billingapp.NewAttachmentService(objectStore, estimateRepo, invoiceRepo)
	webhookVerifier := payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret)
	webhookService := billingapp.NewWebhookService(webhookVerifier, invoiceService, log)
	opportunityService := pipelineapp.NewOpportunityService(opportunityRepo, stageHistoryRepo, clientRepo)
	activityService := pipelineapp.NewActivityService(activityRepo, opportunityRepo)
	followUpService := pipelineapp.NewFollowUpService(followUpRepo, opportunityRepo)
	portalService := portalapp.NewPortalService(
		sessionStore, messageRepo, contactRepo, estimateRepo, invoiceRepo, cfg.Portal.SessionTTL,
	)
	legacyClient := legacy.NewClient(cfg.Legacy, legacy.WithLogger(log))
	importService := legacyapp.NewImportService(legacyClient, clientRepo, invoiceRepo, log)

	// HTTP handlers
	healthHandler := handler.NewHealthHandler(db.DB, appVersion)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	clientHandler := handler.NewClientHandler(clientService)
	contactHandler := handler.NewContactHandler(contactService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	estimateHandler := handler.NewEstimateHandler(estimateService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService, activityService, followUpService)
	portalHandler := handler.NewPortalHandler(portalService, cfg.Portal)
	messageHandler := handler.NewMessageHandler(portalService)
	importHandler := handler.NewImportHandler(importService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.HTTPMetrics(meterProvider))

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes live outside API versioning
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// Stripe calls this endpoint directly, so it carries the tenant in the
	// path and skips all auth middleware
	engine.POST("/api/v1/webhooks/stripe/:tenant_id", webhookHandler.HandleStripe)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Staff authentication (public)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)

	// Identity (staff token required, user management admin-only)
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.Use(middleware.JWTAuth(jwtService))
	identityRoutes.PUT("/auth/password", authHandler.ChangePassword)

	userRoutes := identityRoutes.Group("users", "/users")
	userRoutes.Use(middleware.RequireAdmin())
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)

	// Directory (clients, contacts, message threads)
	directoryRoutes := router.NewDomainGroup("directory", "/directory")
	directoryRoutes.Use(middleware.JWTAuth(jwtService))
	directoryRoutes.POST("/clients", clientHandler.Create)
	directoryRoutes.GET("/clients", clientHandler.List)
	directoryRoutes.GET("/clients/:id", clientHandler.Get)
	directoryRoutes.PUT("/clients/:id", clientHandler.Update)
	directoryRoutes.DELETE("/clients/:id", clientHandler.Delete)
	directoryRoutes.POST("/clients/:id/activate", clientHandler.Activate)
	directoryRoutes.POST("/clients/:id/deactivate", clientHandler.Deactivate)
	directoryRoutes.POST("/clients/:id/archive", clientHandler.Archive)
	directoryRoutes.POST("/clients/:id/restore", clientHandler.Restore)
	directoryRoutes.POST("/clients/:id/contacts", contactHandler.Create)
	directoryRoutes.GET("/clients/:id/contacts", contactHandler.ListByClient)
	directoryRoutes.POST("/clients/:id/messages", messageHandler.Reply)
	directoryRoutes.GET("/contacts/:id", contactHandler.Get)
	directoryRoutes.PUT("/contacts/:id", contactHandler.Update)
	directoryRoutes.DELETE("/contacts/:id", contactHandler.Delete)
	directoryRoutes.POST("/contacts/:id/grant-portal-access", contactHandler.GrantPortalAccess)
	directoryRoutes.POST("/contacts/:id/revoke-portal-access", contactHandler.RevokePortalAccess)

	// Work (projects, tasks, scheduling)
	workRoutes := router.NewDomainGroup("work", "/work")
	workRoutes.Use(middleware.JWTAuth(jwtService))
	workRoutes.POST("/projects", projectHandler.Create)
	workRoutes.GET("/projects", projectHandler.List)
	workRoutes.GET("/projects/:id", projectHandler.Get)
	workRoutes.PUT("/projects/:id", projectHandler.Update)
	workRoutes.DELETE("/projects/:id", projectHandler.Delete)
	workRoutes.POST("/projects/:id/activate", projectHandler.Activate)
	workRoutes.POST("/projects/:id/hold", projectHandler.Hold)
	workRoutes.POST("/projects/:id/complete", projectHandler.Complete)
	workRoutes.POST("/projects/:id/cancel", projectHandler.Cancel)
	workRoutes.POST("/tasks", taskHandler.Create)
	workRoutes.GET("/tasks", taskHandler.List)
	workRoutes.GET("/tasks/overdue", taskHandler.ListOverdue)
	workRoutes.GET("/tasks/:id", taskHandler.Get)
	workRoutes.PUT("/tasks/:id", taskHandler.Update)
	workRoutes.DELETE("/tasks/:id", taskHandler.Delete)
	workRoutes.POST("/tasks/:id/assign", taskHandler.Assign)
	workRoutes.POST("/tasks/:id/unassign", taskHandler.Unassign)
	workRoutes.POST("/tasks/:id/start", taskHandler.Start)
	workRoutes.POST("/tasks/:id/complete", taskHandler.Complete)
	workRoutes.POST("/tasks/:id/reopen", taskHandler.Reopen)
	workRoutes.POST("/tasks/:id/cancel", taskHandler.Cancel)
	workRoutes.POST("/schedule-events", scheduleHandler.Create)
	workRoutes.GET("/schedule-events", scheduleHandler.ListRange)
	workRoutes.GET("/schedule-events/:id", scheduleHandler.Get)
	workRoutes.PUT("/schedule-events/:id", scheduleHandler.Update)
	workRoutes.DELETE("/schedule-events/:id", scheduleHandler.Delete)

	// Billing (estimates, invoices, payments)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.Use(middleware.JWTAuth(jwtService))
	billingRoutes.POST("/estimates", estimateHandler.Create)
	billingRoutes.GET("/estimates", estimateHandler.List)
	billingRoutes.POST("/estimates/expire-stale", estimateHandler.ExpireStale)
	billingRoutes.GET("/estimates/:id", estimateHandler.Get)
	billingRoutes.PUT("/estimates/:id", estimateHandler.Update)
	billingRoutes.DELETE("/estimates/:id", estimateHandler.Delete)
	billingRoutes.POST("/estimates/:id/send", estimateHandler.Send)
	billingRoutes.POST("/estimates/:id/accept", estimateHandler.Accept)
	billingRoutes.POST("/estimates/:id/decline", estimateHandler.Decline)
	billingRoutes.POST("/estimates/:id/convert", estimateHandler.ConvertToInvoice)
	billingRoutes.POST("/estimates/:id/attachments", attachmentHandler.UploadForEstimate)
	billingRoutes.GET("/estimates/:id/attachments/:filename", attachmentHandler.DownloadForEstimate)
	billingRoutes.DELETE("/estimates/:id/attachments/:filename", attachmentHandler.DeleteForEstimate)
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/overdue", invoiceHandler.ListOverdue)
	billingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/void", invoiceHandler.Void)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
	billingRoutes.GET("/invoices/:id/payments", invoiceHandler.ListPayments)
	billingRoutes.POST("/invoices/:id/attachments", attachmentHandler.UploadForInvoice)
	billingRoutes.GET("/invoices/:id/attachments/:filename", attachmentHandler.DownloadForInvoice)
	billingRoutes.DELETE("/invoices/:id/attachments/:filename", attachmentHandler.DeleteForInvoice)

	// Pipeline (opportunities, activities, follow-ups)
	pipelineRoutes := router.NewDomainGroup("pipeline", "/pipeline")
	pipelineRoutes.Use(middleware.JWTAuth(jwtService))
	pipelineRoutes.POST("/opportunities", opportunityHandler.Create)
	pipelineRoutes.GET("/opportunities", opportunityHandler.List)
	pipelineRoutes.GET("/opportunities/:id", opportunityHandler.Get)
	pipelineRoutes.PUT("/opportunities/:id", opportunityHandler.Update)
	pipelineRoutes.DELETE("/opportunities/:id", opportunityHandler.Delete)
	pipelineRoutes.POST("/opportunities/:id/advance", opportunityHandler.AdvanceStage)
	pipelineRoutes.POST("/opportunities/:id/win", opportunityHandler.MarkWon)
	pipelineRoutes.POST("/opportunities/:id/lose", opportunityHandler.MarkLost)
	pipelineRoutes.GET("/opportunities/:id/history", opportunityHandler.GetHistory)
	pipelineRoutes.POST("/opportunities/:id/activities", opportunityHandler.LogActivity)
	pipelineRoutes.GET("/opportunities/:id/activities", opportunityHandler.ListActivities)
	pipelineRoutes.POST("/opportunities/:id/follow-ups", opportunityHandler.CreateFollowUp)
	pipelineRoutes.GET("/opportunities/:id/follow-ups", opportunityHandler.ListFollowUps)
	pipelineRoutes.GET("/follow-ups/due", opportunityHandler.ListDueFollowUps)
	pipelineRoutes.POST("/follow-ups/:id/reschedule", opportunityHandler.RescheduleFollowUp)
	pipelineRoutes.POST("/follow-ups/:id/complete", opportunityHandler.CompleteFollowUp)
	pipelineRoutes.POST("/follow-ups/:id/cancel", opportunityHandler.CancelFollowUp)

	// Legacy data import (admin-only)
	importRoutes := router.NewDomainGroup("imports", "/imports")
	importRoutes.Use(middleware.JWTAuth(jwtService), middleware.RequireAdmin())
	importRoutes.POST("/legacy/clients", importHandler.ImportClients)
	importRoutes.POST("/legacy/invoices", importHandler.ImportInvoices)

	// Client portal: login is public, everything else requires a session
	// cookie
	portalPublicRoutes := router.NewDomainGroup("portal-public", "/portal")
	portalPublicRoutes.POST("/login", portalHandler.Login)
	portalPublicRoutes.POST("/logout", portalHandler.Logout)

	portalRoutes := router.NewDomainGroup("portal", "/portal")
	portalRoutes.Use(middleware.PortalAuth(portalService, cfg.Portal.CookieName))
	portalRoutes.GET("/estimates", portalHandler.ListEstimates)
	portalRoutes.GET("/estimates/:id", portalHandler.GetEstimate)
	portalRoutes.POST("/estimates/:id/accept", portalHandler.AcceptEstimate)
	portalRoutes.POST("/estimates/:id/decline", portalHandler.DeclineEstimate)
	portalRoutes.GET("/invoices", portalHandler.ListInvoices)
	portalRoutes.GET("/invoices/:id", portalHandler.GetInvoice)
	portalRoutes.GET("/messages", portalHandler.ListMessages)
	portalRoutes.POST("/messages", portalHandler.PostMessage)
	portalRoutes.GET("/messages/unread-count", portalHandler.UnreadCount)
	portalRoutes.POST("/messages/:id/read", portalHandler.MarkMessageRead)

	r.Register(authRoutes).
		Register(identityRoutes).
		Register(directoryRoutes).
		Register(workRoutes).
		Register(billingRoutes).
		Register(pipelineRoutes).
		Register(importRoutes).
		Register(portalPublicRoutes).
		Register(portalRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
