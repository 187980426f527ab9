package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/logging"
	"hotelops/internal/monitor"
	"hotelops/internal/notify"
	"hotelops/internal/report"
	"hotelops/internal/sheets"

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

	alertSink := buildAlertNotifier(cfg, logger)
	sweeper := monitor.NewSweeper(db, alertSink, cfg.Alerts, logger)

	reporter := initSheetsReporter(cfg, logger)

	var exporter *report.Exporter
	if cfg.Reports.Path != "" {
		exporter = report.NewExporter(db, cfg.Reports.Path, logger)
	}

	interval, err := time.ParseDuration(cfg.Monitoring.SweepInterval)
	if err != nil || interval <= 0 {
		interval = 15 * time.Minute
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Dur("interval", interval).Msg("ops monitor started")

	sweepTicker := time.NewTicker(interval)
	defer sweepTicker.Stop()
	reportTicker := time.NewTicker(24 * time.Hour)
	defer reportTicker.Stop()

	runSweep(ctx, sweeper, reporter, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("ops monitor stopped")
			return nil
		case <-sweepTicker.C:
			runSweep(ctx, sweeper, reporter, logger)
		case <-reportTicker.C:
			runDailyReport(ctx, cfg, db, exporter, reporter, logger)
		}
	}
}

func runSweep(ctx context.Context, sweeper *monitor.Sweeper, reporter *sheets.Reporter, logger *zerolog.Logger) {
	alerts, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("sweep failed")
		return
	}

	if reporter != nil {
		if err := reporter.AppendSweepResult(ctx, time.Now(), alerts); err != nil {
			logger.Warn().Err(err).Msg("sheets sweep append failed")
		}
	}
}

func runDailyReport(
	ctx context.Context,
	cfg *config.Config,
	db *database.DB,
	exporter *report.Exporter,
	reporter *sheets.Reporter,
	logger *zerolog.Logger,
) {
	hotelIDs := make([]string, 0, len(cfg.Hotels))
	for _, h := range cfg.Hotels {
		hotelIDs = append(hotelIDs, h.ID)
	}

	if exporter != nil {
		if _, err := exporter.Export(ctx, hotelIDs); err != nil {
			logger.Error().Err(err).Msg("daily report export failed")
		}
	}

	if reporter != nil {
		month := database.CurrentMonthUTC(time.Now())
		usage, err := db.GetAIUsageForMonth(ctx, month)
		if err != nil {
			logger.Error().Err(err).Msg("usage fetch failed")
			return
		}
		if err := reporter.UpdateUsageSheet(ctx, month, usage); err != nil {
			logger.Warn().Err(err).Msg("sheets usage update failed")
		}
	}
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
	logger := logging.Component(baseLogger, "monitor-main")

	return cfg, &logger, closer, nil
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

func initSheetsReporter(cfg *config.Config, logger *zerolog.Logger) *sheets.Reporter {
	if cfg.Google.CredentialsFile == "" || cfg.Google.OpsSpreadsheetID == "" {
		return nil
	}

	reporter, err := sheets.NewReporter(cfg.Google.CredentialsFile, cfg.Google.OpsSpreadsheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	logger.Info().Msg("google sheets connected")
	return reporter
}
