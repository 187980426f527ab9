package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelops/internal/api"
	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/events"
	"hotelops/internal/logging"
	"hotelops/internal/metrics"
	"hotelops/internal/monitor"
	"hotelops/internal/notify"
	"hotelops/internal/repository"
	"hotelops/internal/service"
	"hotelops/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	if !cfg.API.Enabled {
		logger.Warn().Msg("API is disabled in config, but starting API application. Check your config.")
	}

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	eventBus := events.NewEventBus()
	registerEventLog(eventBus, logger)

	guestSink := notify.NewWebhookNotifier(cfg.Notify.WebhookURL, logger)
	notifyWorker := worker.NewNotifyWorker(db, guestSink, redisClient, worker.RetryPolicy{
		MaxRetries:    cfg.Notify.MaxRetries,
		InitialDelay:  2 * time.Second,
		MaxDelay:      5 * time.Minute,
		BackoffFactor: 2,
	}, logger)

	tickets := service.NewTicketService(db, eventBus, notifyWorker, logger)
	orders := service.NewOrderService(db, eventBus, notifyWorker, logger)
	catalog := service.NewCatalogService(db)
	rewards := service.NewRewardService(db, eventBus, notifyWorker, logger)

	alertSink := buildAlertNotifier(cfg, logger)
	sweeper := monitor.NewSweeper(db, alertSink, cfg.Alerts, logger)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	err = catalog.SeedCatalog(seedCtx, cfg.Hotels, cfg.Services)
	cancelSeed()
	if err != nil {
		logger.Error().Err(err).Msg("seed catalog")
		return err
	}

	auth := api.NewHTTPAuth(cfg.API, buildHitCounter(redisClient, logger), logger)
	httpServer := api.NewHTTPServer(cfg.API, api.Services{
		Tickets: tickets,
		Orders:  orders,
		Catalog: catalog,
		Rewards: rewards,
		Sweeper: sweeper,
	}, auth, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go notifyWorker.Start(ctx)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backup.Start(ctx)
	}

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := logging.Component(baseLogger, "api-main")

	return cfg, &logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), redisClient); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildHitCounter prefers the redis counter so limits hold across
// replicas; the in-memory counter covers redis being absent or down.
func buildHitCounter(redisClient *redis.Client, logger *zerolog.Logger) domain.HitCounter {
	memory := repository.NewMemoryHitCounter()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverHitCounter(repository.NewRedisHitCounter(redisClient), memory, logger)
}

// registerEventLog subscribes an audit trail for every domain event.
func registerEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventTicketCreated,
		events.EventTicketClosed,
		events.EventOrderCreated,
		events.EventOrderStatusChanged,
		events.EventVoucherIssued,
	} {
		bus.Subscribe(eventType, func(e *events.Event) error {
			logger.Debug().Str("event", e.Type).RawJSON("payload", e.Payload).Msg("domain event")
			return nil
		})
	}
}

func buildAlertNotifier(cfg *config.Config, logger *zerolog.Logger) domain.Notifier {
	var channels []domain.Notifier
	if cfg.Alerts.WebhookURL != "" {
		channels = append(channels, notify.NewWebhookNotifier(cfg.Alerts.WebhookURL, logger))
	}
	if cfg.Alerts.TelegramToken != "" && cfg.Alerts.TelegramChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Alerts.TelegramToken, cfg.Alerts.TelegramChatID)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram init failed, continuing without telegram alerts")
		} else {
			channels = append(channels, tg)
		}
	}
	return notify.NewBestEffort(logger, channels...)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
