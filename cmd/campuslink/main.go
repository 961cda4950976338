package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Faheem-Musthafa/campuslink-backend/internal/api"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/auth"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/cache"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/config"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/events"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/handlers"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/logger"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/middleware"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/outbox"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/repository"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/service"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/storage"
	"github.com/Faheem-Musthafa/campuslink-backend/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Development)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mc, err := repository.NewMongoClient(ctx, cfg)
	if err != nil {
		zlog.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	db := mc.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		zlog.Fatalw("index bootstrap", "err", err)
	}

	rdb, err := cache.NewRedis(cfg)
	if err != nil {
		zlog.Fatalw("redis init", "err", err)
	}
	defer rdb.Close()

	s3store, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicRead)
	if err != nil {
		zlog.Fatalw("s3 init", "err", err)
	}

	verifier, err := auth.NewVerifier(cfg.JWT.PublicKeyPath)
	if err != nil {
		zlog.Fatalw("jwt init", "err", err)
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()
	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, zlog)
	defer consumer.Close()

	// Repositories
	convRepo := repository.NewConversationRepo(db)
	msgRepo := repository.NewMessageRepo(db)
	presRepo := repository.NewPresenceRepo(db)
	modRepo := repository.NewModerationRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)
	campusRepo := repository.NewCampusRepo(db)
	previewRepo := repository.NewLinkPreviewRepo(db)

	// Services
	chatSvc := service.NewChatService(convRepo, msgRepo, modRepo, producer, zlog)
	feedSvc := service.NewFeedService(convRepo, msgRepo)
	presSvc := service.NewPresenceService(presRepo, rdb, modRepo, producer, zlog, cfg.PresenceTimeout, cfg.TypingTTL)
	modSvc := service.NewModerationService(modRepo, outboxRepo, zlog)
	mediaSvc := service.NewMediaService(s3store, previewRepo, convRepo, zlog)
	campusSvc := service.NewCampusService(campusRepo)

	// Realtime fan-out: kafka -> hub
	hub := ws.NewHub(presRepo, zlog)
	go func() {
		if err := consumer.Start(ctx, hub.Dispatch); err != nil {
			zlog.Errorw("event consumer stopped", "err", err)
		}
	}()

	// Outbox reconciliation
	worker := outbox.NewWorker(outboxRepo, modRepo, auditRepo, zlog,
		cfg.OutboxInterval, int64(cfg.Outbox.BatchSize), cfg.Outbox.MaxAttempts)
	go worker.Run(ctx)

	limiter := middleware.NewRateLimiter(rdb.Cli, cfg.Redis.Prefix+":rl", cfg.RateLimit.Limit, cfg.RateLimitWindow)

	app := api.NewServer(cfg, api.Deps{
		Verifier:    verifier,
		RateLimiter: limiter,
		Hub:         hub,
		Chat:        handlers.NewChatHandler(chatSvc, feedSvc),
		Messages:    handlers.NewMessageHandler(chatSvc),
		Status:      handlers.NewStatusHandler(chatSvc, presSvc),
		Presence:    handlers.NewPresenceHandler(presSvc),
		Moderation:  handlers.NewModerationHandler(modSvc, mediaSvc),
		Admin:       handlers.NewAdminHandler(modSvc, auditRepo),
		Media:       handlers.NewMediaHandler(mediaSvc),
		Campus:      handlers.NewCampusHandler(campusSvc),
	})

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Fatalw("server listen", "err", err)
		}
	}()
	zlog.Infow("campuslink-backend started", "port", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	zlog.Infow("campuslink-backend stopped")
}
