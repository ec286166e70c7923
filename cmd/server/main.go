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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/trattoria-luca/service-booking/internal/application"
	"github.com/trattoria-luca/service-booking/internal/config"
	"github.com/trattoria-luca/service-booking/internal/domain/catalog"
	bookingEvents "github.com/trattoria-luca/service-booking/internal/events"
	"github.com/trattoria-luca/service-booking/internal/handler"
	"github.com/trattoria-luca/service-booking/internal/notify"
	"github.com/trattoria-luca/service-booking/internal/platform/database"
	"github.com/trattoria-luca/service-booking/internal/platform/health"
	"github.com/trattoria-luca/service-booking/internal/platform/kafka"
	"github.com/trattoria-luca/service-booking/internal/platform/logger"
	"github.com/trattoria-luca/service-booking/internal/platform/middleware"
	"github.com/trattoria-luca/service-booking/internal/repository"
	"github.com/trattoria-luca/service-booking/migrations"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("timezone", cfg.Timezone),
	)

	// Load the package catalog
	store, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("failed to load catalog", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("packages", len(store.ListPackages())))

	// Connect to database and apply migrations
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), migrations.Files, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Connect to redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = rdb.Close() }()
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		pingCancel()
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	pingCancel()

	// Initialize Kafka producer and the insert listener that uses it
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()
	bookingPublisher := bookingEvents.NewBookingPublisher(kafkaProducer, cfg.Kafka.Topic, log)

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db, bookingPublisher, log)
	subscriberRepo := repository.NewGormSubscriberRepository(db)
	draftStore := repository.NewRedisDraftStore(rdb, cfg.Redis.DraftTTL, cfg.Redis.LockTTL)
	noticeStore := repository.NewRedisNoticeStore(rdb, cfg.Redis.NoticeTTL)

	// Initialize application services
	catalogService := application.NewCatalogService(store)
	formService := application.NewFormService(draftStore, store, cfg.Location, log)
	submissionService := application.NewSubmissionService(draftStore, bookingRepo, store, cfg.Location, log)
	newsletterService := application.NewNewsletterService(subscriberRepo, log)
	noticeService := application.NewNoticeService(noticeStore)

	// Initialize operator alerts
	telegram := notify.NewTelegramClient(notify.TelegramConfig{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
		BaseURL:  cfg.Telegram.BaseURL,
	}, nil)
	if err := telegram.CheckConfig(); err != nil {
		log.Warn("telegram alerts disabled until configured", zap.Error(err))
	}
	dispatcher := notify.NewDispatcher(telegram, cfg.Location, log)

	// Start the notification consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "booking-notifications"
	notificationConsumer := bookingEvents.NewNotificationConsumer(
		cfg.Kafka.Brokers,
		groupID,
		cfg.Kafka.Topic,
		dispatcher,
		log,
	)
	defer func() { _ = notificationConsumer.Close() }()

	go func() {
		log.Info("starting notification consumer", zap.String("group_id", groupID))
		if err := notificationConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("notification consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService)
	draftHandler := handler.NewDraftHandler(formService, submissionService)
	bookingHandler := handler.NewBookingHandler(submissionService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService, noticeService)
	notifyHandler := handler.NewNotifyHandler(dispatcher, log)

	// Setup Gin router
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, rdb, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	catalogHandler.RegisterRoutes(&router.RouterGroup)
	draftHandler.RegisterRoutes(&router.RouterGroup)
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	newsletterHandler.RegisterRoutes(&router.RouterGroup)
	notifyHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	// Let in-flight booking events reach Kafka before the producer closes
	bookingPublisher.Wait()

	// Cancel the consumer context
	cancel()

	log.Info("service-booking stopped")
}

func loadCatalog(path string) (*catalog.Store, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
