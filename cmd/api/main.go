package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/trackwire/notification-tracker/internal/config"
	"github.com/trackwire/notification-tracker/internal/handler"
	"github.com/trackwire/notification-tracker/internal/infra/postgresql"
	"github.com/trackwire/notification-tracker/internal/infra/postgresql/migrations"
	infraredis "github.com/trackwire/notification-tracker/internal/infra/redis"
	"github.com/trackwire/notification-tracker/internal/observability"
	"github.com/trackwire/notification-tracker/internal/repository"
	"github.com/trackwire/notification-tracker/internal/sender"
	"github.com/trackwire/notification-tracker/internal/service"
	"github.com/trackwire/notification-tracker/internal/stream"
	"github.com/trackwire/notification-tracker/internal/transport"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	broker, err := stream.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}

	publisher := stream.NewRabbitMQPublisher(broker)
	defer publisher.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.WebhookRatePerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	httpSender, err := sender.NewHTTPSender(cfg.SenderURL)
	if err != nil {
		logger.Fatal("sender initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	repo := repository.NewGormNotificationRepo(db)

	notificationService, err := service.NewNotificationService(repo, httpSender, publisher, cfg.EventsTopic, metrics, logger)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}

	webhookService, err := service.NewWebhookService(repo, publisher, cfg.EventsTopic, metrics, logger)
	if err != nil {
		logger.Fatal("webhook service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "notification-tracker",
		ErrorHandler: transport.ErrorHandler(logger),
	})

	app.Use(transport.CorrelationMiddleware())
	app.Use(metrics.HTTPMiddleware())
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	handler.RegisterHealthRoutes(app, sqlDB, rdb, broker)

	if err := handler.RegisterNotificationRoutes(app, notificationService); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterWebhookRoutes(app, webhookService, limiter); err != nil {
		logger.Fatal("webhook routes registration failed", zap.Error(err))
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		if err := app.Shutdown(); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("notification-tracker api started", zap.Int("port", cfg.APIPort))

	if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
		logger.Fatal("server stopped unexpectedly", zap.Error(err))
	}

	logger.Info("notification-tracker api stopped")
}
