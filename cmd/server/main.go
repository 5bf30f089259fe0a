package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	httpAdapter "github.com/khoahotran/portfolio-admin/adapters/http"
	"github.com/khoahotran/portfolio-admin/adapters/media_storage"
	"github.com/khoahotran/portfolio-admin/adapters/persistence"
	"github.com/khoahotran/portfolio-admin/internal/application/service"
	authUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/profile"
	recordUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/record"
	"github.com/khoahotran/portfolio-admin/internal/config"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/pkg/auth"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
	"github.com/khoahotran/portfolio-admin/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Portfolio Admin API Server...", zap.String("env", cfg.App.Env))

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "portfolio-admin-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect Postgres", err)
	}
	defer dbPool.Close()

	// Optional profile view cache
	var viewCache profile.ViewCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		viewCache = persistence.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL)
	} else {
		appLogger.Warn("Redis not configured, profile views are not cached")
	}

	// Optional event publishing
	var events service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		events = kafkaClient
	} else {
		appLogger.Warn("Kafka not configured, profile events are not published")
	}

	// Media storage
	store, err := newFileStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize media storage", err)
	}
	if err := store.EnsureBuckets(context.Background()); err != nil {
		appLogger.Fatal("Failed to prepare media buckets", err)
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)
	educationRepo := persistence.NewPostgresEducationRepo(dbPool, appLogger)
	experienceRepo := persistence.NewPostgresExperienceRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, userRepo, store, viewCache, events, appLogger)
	recordUseCase := recordUC.NewRecordUseCase(educationRepo, experienceRepo, events, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(loginUseCase, appLogger),
		Profile: httpAdapter.NewProfileHandler(profileUseCase, appLogger),
		Record:  httpAdapter.NewRecordHandler(recordUseCase, appLogger),
	}

	opts := httpAdapter.RouterOptions{MaxMultipartMemory: cfg.Storage.MaxMultipartMemory}
	if cfg.Storage.Driver == "local" {
		opts.UploadsDir = cfg.Storage.Root
	}
	router := httpAdapter.NewRouter(handlers, jwtSvc, appLogger, opts)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}

func newFileStore(cfg config.Config, log logger.Logger) (service.FileStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return media_storage.NewS3Store(cfg, log)
	case "local", "":
		return media_storage.NewLocalStore(cfg.Storage.Root, log)
	default:
		return nil, errors.New("unknown storage driver " + cfg.Storage.Driver)
	}
}
