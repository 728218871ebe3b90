package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cabinetrenov/renov-api/config"
	"github.com/cabinetrenov/renov-api/internal/cache"
	"github.com/cabinetrenov/renov-api/internal/handlers"
	"github.com/cabinetrenov/renov-api/internal/middleware"
	"github.com/cabinetrenov/renov-api/internal/repository"
	"github.com/cabinetrenov/renov-api/internal/services"
	"github.com/cabinetrenov/renov-api/pkg/db"
	"github.com/cabinetrenov/renov-api/pkg/jwt"
	"github.com/cabinetrenov/renov-api/pkg/logger"
	"github.com/cabinetrenov/renov-api/pkg/mailer"
	"github.com/cabinetrenov/renov-api/pkg/metrics"
	"github.com/cabinetrenov/renov-api/pkg/profiling"
	"github.com/cabinetrenov/renov-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	publicFormBodyLimit = 64 * 1024
	adminBodyLimit      = 1 * 1024 * 1024
)

type routeHandlers struct {
	health        *handlers.HealthHandler
	settings      *handlers.SettingsHandler
	auth          *handlers.AuthHandler
	formations    *handlers.FormationHandler
	quotes        *handlers.QuoteRequestHandler
	contacts      *handlers.ContactHandler
	categories    *handlers.CategoryHandler
	notifications *handlers.NotificationHandler
	trash         *handlers.TrashHandler
}

type rateLimiters struct {
	general *middleware.RateLimiter
	forms   *middleware.RateLimiter
	login   *middleware.RateLimiter
}

// registerPublicRoutes registers the routes used by the public site
func registerPublicRoutes(api *gin.RouterGroup, h routeHandlers, rl rateLimiters) {
	api.GET("/healthcheck", rl.general.Middleware(), h.health.Healthcheck)
	api.GET("/settings", rl.general.Middleware(), h.settings.Get)

	api.GET("/formations", rl.general.Middleware(), h.formations.List)
	api.GET("/formations/:id", rl.general.Middleware(), h.formations.Show)
	api.GET("/public/categories", rl.general.Middleware(), h.categories.List)
	api.GET("/public/categories/:id", rl.general.Middleware(), h.categories.Show)
	api.GET("/public/categories/roots", rl.general.Middleware(), h.categories.Roots)

	// Public forms: 20 submissions per minute per IP
	api.POST("/demandes-devis", rl.forms.Middleware(), middleware.BodySizeLimitMiddleware(publicFormBodyLimit), h.quotes.Create)
	api.POST("/contact-messages", rl.forms.Middleware(), middleware.BodySizeLimitMiddleware(publicFormBodyLimit), h.contacts.Create)

	api.POST("/auth/login", rl.login.Middleware(), middleware.BodySizeLimitMiddleware(publicFormBodyLimit), h.auth.Login)
}

// registerBackOfficeRoutes registers the routes behind bearer authentication
func registerBackOfficeRoutes(api *gin.RouterGroup, h routeHandlers, authenticator middleware.Authenticator) {
	admin := api.Group("")
	admin.Use(middleware.BearerAuthMiddleware(authenticator), middleware.BodySizeLimitMiddleware(adminBodyLimit))

	admin.GET("/auth/me", h.auth.Me)
	admin.POST("/auth/logout", h.auth.Logout)

	admin.POST("/formations", h.formations.Create)
	admin.PUT("/formations/:id", h.formations.Update)
	admin.PATCH("/formations/:id", h.formations.Update)
	admin.DELETE("/formations/:id", h.formations.Delete)

	admin.GET("/demandes-devis", h.quotes.List)
	admin.GET("/demandes-devis/:id", h.quotes.Show)
	admin.PUT("/demandes-devis/:id", h.quotes.Update)
	admin.PATCH("/demandes-devis/:id", h.quotes.Update)
	admin.DELETE("/demandes-devis/:id", h.quotes.Delete)

	admin.GET("/contact-messages", h.contacts.List)
	admin.GET("/contact-messages/:id", h.contacts.Show)
	admin.PUT("/contact-messages/:id", h.contacts.Update)
	admin.PATCH("/contact-messages/:id", h.contacts.Update)
	admin.DELETE("/contact-messages/:id", h.contacts.Delete)

	admin.POST("/categories", h.categories.Create)
	admin.PUT("/categories/:id", h.categories.Update)
	admin.PATCH("/categories/:id", h.categories.Update)
	admin.DELETE("/categories/:id", h.categories.Delete)

	admin.GET("/notifications", h.notifications.List)
	admin.GET("/notifications/unread-count", h.notifications.UnreadCount)
	admin.PATCH("/notifications/:id/read", h.notifications.MarkRead)

	admin.GET("/trash", h.trash.List)
	admin.DELETE("/trash/empty/all", h.trash.Empty)
	admin.POST("/trash/:key/:id/restore", h.trash.Restore)
	admin.DELETE("/trash/:key/:id", h.trash.PurgeKind)
	admin.DELETE("/trash/:key", h.trash.PurgeByID)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting RENOV API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.AppEnv,
		Endpoint:       cfg.Observability.ExporterEndpoint,
		SampleRatio:    cfg.Observability.TraceSampleRatio,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability.ServiceName, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler, continuing without it", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	// Migrations run separately through cmd/migrate
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:        cfg.Database.URL,
		MaxConns:   cfg.Database.MaxConns,
		MinConns:   cfg.Database.MinConns,
		CACertPath: cfg.Database.CACertPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Background workers stop with this context
	appCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	mailQueue := mailer.NewQueue(mailer.NewSender(cfg.Notify.ResendAPIKey, cfg.Notify.MailFrom), cfg.Notify.QueueSize)

	formationRepo := repository.NewFormationRepository(pool)
	quoteRepo := repository.NewQuoteRequestRepository(pool)
	contactRepo := repository.NewContactMessageRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	categoryCache := cache.NewCategoryCache(time.Duration(cfg.Cache.CategoryTTLSeconds) * time.Second)
	tokenManager := jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTLHours)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, mailQueue, cfg)
	authService := services.NewAdminAuthService(userRepo, tokenManager)
	formationService := services.NewFormationService(formationRepo)
	quoteService := services.NewQuoteRequestService(quoteRepo, notificationService)
	contactService := services.NewContactService(contactRepo, notificationService)
	categoryService := services.NewCategoryService(categoryRepo, categoryCache)
	// Order matters for the bare-id purge: formations first
	trashService := services.NewTrashService(formationRepo, quoteRepo, contactRepo)

	h := routeHandlers{
		health:        handlers.NewHealthHandler(pool.Ping),
		settings:      handlers.NewSettingsHandler(cfg.Site),
		auth:          handlers.NewAuthHandler(authService),
		formations:    handlers.NewFormationHandler(formationService),
		quotes:        handlers.NewQuoteRequestHandler(quoteService),
		contacts:      handlers.NewContactHandler(contactService),
		categories:    handlers.NewCategoryHandler(categoryService),
		notifications: handlers.NewNotificationHandler(notificationService),
		trash:         handlers.NewTrashHandler(trashService),
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Deprecation", "Link"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiters := rateLimiters{
		general: middleware.NewRateLimiter(appCtx, 50, 100),
		forms:   middleware.NewRateLimiter(appCtx, middleware.PerMinute(20), 20),
		login:   middleware.NewRateLimiter(appCtx, middleware.PerMinute(10), 5),
	}

	api := router.Group("/api")
	api.GET("/metrics", limiters.general.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	registerPublicRoutes(api, h, limiters)
	registerBackOfficeRoutes(api, h, authService)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Deliver what is still queued before the process exits
	if err := mailQueue.Close(ctx); err != nil {
		logger.Warn("Mail queue not drained before shutdown", zap.Error(err))
	}
	stopWorkers()

	logger.Info("Server exited")
}
