package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hospital-appointment/config"
	deliveryHttp "hospital-appointment/internal/delivery/http"
	"hospital-appointment/internal/delivery/http/handler"
	"hospital-appointment/internal/delivery/http/middleware"
	"hospital-appointment/internal/infrastructure/cache"
	"hospital-appointment/internal/infrastructure/database"
	"hospital-appointment/internal/repository"
	"hospital-appointment/internal/service"
	"hospital-appointment/internal/usecase"
	"hospital-appointment/pkg/jwt"
	"hospital-appointment/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// NewLogger returns a JSON logrus logger writing to stdout at the given level.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// New creates a new App instance with all dependencies initialized
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log}

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient

	app.initializeServer()

	return app, nil
}

// NewAdminUsecase connects only to PostgreSQL and returns the account
// provisioning usecase with a function that closes the connection.
func NewAdminUsecase(cfg *config.Config, log *logrus.Logger) (usecase.AdminUsecase, func(), error) {
	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	auditService := service.NewAuditService(log, repository.NewAuditLogRepository())
	adminUsecase := usecase.NewAdminUsecase(database.NewTransactor(db), log, repository.NewUserRepository(), auditService)
	return adminUsecase, closeDB, nil
}

// initializeServer wires repositories, services, usecases and handlers
func (app *App) initializeServer() {
	cfg, log := app.Config, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	transactor := database.NewTransactor(app.DB)

	// Repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	slotRepo := repository.NewScheduleSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	analyticsRepo := repository.NewAnalyticsRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewRedisTokenStore(app.RedisClient)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(transactor, log, userRepo, doctorProfileRepo, auditService, jwtService, tokenStore)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(transactor, log, userRepo, doctorProfileRepo, slotRepo, auditService, tokenStore)
	scheduleUsecase := usecase.NewScheduleUsecase(transactor, log, slotRepo, doctorProfileRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(transactor, log, appointmentRepo, slotRepo, auditService)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(transactor, log, medicalRecordRepo, appointmentRepo, auditService)
	analyticsUsecase := usecase.NewAnalyticsUsecase(transactor, log, analyticsRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(transactor, log, auditLogRepo)

	// Handlers
	healthHandler := handler.NewHealthHandler(log, map[string]handler.HealthCheck{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return app.RedisClient.Ping(ctx).Err()
		},
	})

	router := deliveryHttp.NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator),
		handler.NewDoctorHandler(doctorProfileUsecase, customValidator),
		handler.NewScheduleHandler(scheduleUsecase, customValidator),
		handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator),
		handler.NewAnalyticsHandler(analyticsUsecase),
		handler.NewAuditLogHandler(auditLogUsecase),
		healthHandler,
		middleware.NewAuthMiddleware(jwtService, tokenStore, log),
		middleware.NewCORSMiddleware(cfg.App.CORSOrigins),
		middleware.NewLoggingMiddleware(log),
	)

	app.Server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: router.Setup(),
	}
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.Log.Infof("Server starting on port %s (%s)", app.Config.App.Port, app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		app.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.App.ShutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	app.Close()
	app.Log.Info("Server shutdown complete")
	return err
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if app.RedisClient != nil {
		_ = app.RedisClient.Close()
	}
}
