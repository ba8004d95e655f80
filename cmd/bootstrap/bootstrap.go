package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"longa/config"
	deliveryHttp "longa/internal/delivery/http"
	"longa/internal/delivery/http/handler"
	"longa/internal/delivery/http/middleware"
	"longa/internal/infrastructure/cache"
	"longa/internal/infrastructure/database"
	"longa/internal/infrastructure/messaging"
	"longa/internal/repository"
	"longa/internal/service"
	"longa/internal/usecase"
	"longa/pkg/jwt"
	"longa/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	RedisClient  *redis.Client
	Server       *http.Server
	Publisher    service.EventPublisher
	ProviderPool *service.ProviderPoolCache
	RateLimiter  *middleware.RateLimiter
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if cfg.Migration.RunOnStart {
		if err := database.RunMigrations(db, cfg.Migration.SourceURL); err != nil {
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	app.initializeServer(cfg, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer wires repositories, services, usecases and handlers
// and creates the HTTP server
func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := jwt.NewTokenStore(redisClient)
	customValidator := validator.NewValidator()

	// Repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	providerProfileRepo := repository.NewProviderProfileRepository()
	clientProfileRepo := repository.NewClientProfileRepository()
	serviceRepo := repository.NewServiceRepository()
	bookingRepo := repository.NewBookingRepository()
	assignmentRepo := repository.NewBookingAssignmentRepository()
	payoutRepo := repository.NewPayoutRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Domain services
	auditService := service.NewAuditService(log, auditLogRepo)
	publisher := messaging.NewPublisher(cfg.Kafka, log)
	providerPool := service.NewProviderPoolCache(db, redisClient, log, providerProfileRepo, cfg.Cache.ProviderPoolTTL)
	providerPool.Start(context.Background())
	calculator := service.NewPayoutCalculator(cfg.Payout.DefaultCommissionPercentage)
	resolver := service.NewAssignmentResolver()
	exporter := service.NewPayoutExporter(cfg.Payout.ExportLocation)

	app.Publisher = publisher
	app.ProviderPool = providerPool

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, providerProfileRepo, clientProfileRepo, auditService, providerPool, jwtService, tokenStore)
	bookingUsecase := usecase.NewBookingLifecycleUsecase(db, log, bookingRepo, assignmentRepo, payoutRepo, serviceRepo, providerProfileRepo, auditService, publisher, calculator, cfg.Payout.ExportLocation)
	assignmentUsecase := usecase.NewProviderAssignmentUsecase(db, log, bookingRepo, assignmentRepo, providerPool, resolver, auditService, publisher)
	payoutUsecase := usecase.NewPayoutUsecase(db, log, payoutRepo, providerProfileRepo, auditService, exporter, cfg.Payout.ExportLocation)
	serviceUsecase := usecase.NewServiceCatalogUsecase(db, log, serviceRepo, auditService)
	providerUsecase := usecase.NewProviderProfileUsecase(db, log, userRepo, providerProfileRepo, providerPool, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	assignmentHandler := handler.NewAssignmentHandler(assignmentUsecase, customValidator)
	payoutHandler := handler.NewPayoutHandler(payoutUsecase, customValidator)
	serviceHandler := handler.NewServiceHandler(serviceUsecase, customValidator)
	providerHandler := handler.NewProviderHandler(providerUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase, customValidator)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 5*time.Minute)
	app.RateLimiter = rateLimiter

	router := deliveryHttp.NewRouter(
		authHandler,
		bookingHandler,
		assignmentHandler,
		payoutHandler,
		serviceHandler,
		providerHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		rateLimiter,
	)

	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.App.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close stops background workers and closes connections.
// Workers stop first so nothing touches Redis or the database after close.
func (app *App) Close() {
	if app.ProviderPool != nil {
		app.ProviderPool.Stop()
	}

	if app.RateLimiter != nil {
		app.RateLimiter.Stop()
	}

	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			logrus.Errorf("Failed to close event publisher: %v", err)
		}
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
