package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/adapters/media_storage"
	"github.com/khoahotran/portfolio-admin/adapters/persistence"
	"github.com/khoahotran/portfolio-admin/internal/application/service"
	mediaUC "github.com/khoahotran/portfolio-admin/internal/application/usecase/media"
	"github.com/khoahotran/portfolio-admin/internal/config"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
	"github.com/khoahotran/portfolio-admin/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	appLogger.Info("Starting Portfolio Admin Worker...")

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("Worker needs Kafka brokers", nil)
	}

	shutdownTracing, err := tracing.Setup(cfg, appLogger, "portfolio-admin-worker")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Media storage the API writes to
	var store service.FileStore
	if cfg.Storage.Driver == "s3" {
		store, err = media_storage.NewS3Store(cfg, appLogger)
	} else {
		store, err = media_storage.NewLocalStore(cfg.Storage.Root, appLogger)
	}
	if err != nil {
		appLogger.Fatal("Failed to initialize media storage", err)
	}

	// Cloudinary Uploader
	var uploader service.Uploader
	if cfg.Cloudinary.CloudName != "" {
		uploader, err = media_storage.NewCloudinaryAdapter(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize uploader", err)
		}
	} else {
		appLogger.Warn("Cloudinary not configured, media is not mirrored")
	}

	// Profile view cache
	var viewCache profile.ViewCache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("Cannot connect Redis", err)
		}
		defer redisClient.Close()
		viewCache = persistence.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL)
	}

	// Worker Use Case
	mirrorUC := mediaUC.NewMirrorMediaUseCase(store, uploader, viewCache, cfg.Cloudinary.Folder, appLogger)

	// Kafka Consumer
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicProfileEvents), zap.String("group_id", cfg.Kafka.GroupID))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				appLogger.Info("Worker stopped")
				return
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		l := appLogger.With(zap.String("key", string(msg.Key)), zap.Int64("offset", msg.Offset))

		var payload event.ProfileEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			l.Error("Failed to unmarshal event, skipping", err)
			commitMessage(consumer, msg, l)
			continue
		}

		if err := mirrorUC.Execute(ctx, payload); err != nil {
			l.Error("Failed to process event", err, zap.String("event_type", string(payload.EventType)))
			continue
		}

		commitMessage(consumer, msg, l)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, log logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Error("Failed to commit message", err)
	}
}
