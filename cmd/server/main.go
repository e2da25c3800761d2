package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Taby01/SmartUrine-Dash/internal/alertlog"
	"github.com/Taby01/SmartUrine-Dash/internal/api"
	"github.com/Taby01/SmartUrine-Dash/internal/config"
	"github.com/Taby01/SmartUrine-Dash/internal/database"
	"github.com/Taby01/SmartUrine-Dash/internal/domain"
	"github.com/Taby01/SmartUrine-Dash/internal/service"
	"github.com/Taby01/SmartUrine-Dash/internal/store"
)

func main() {
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)
	logger.WithFields(logrus.Fields{
		"host":        cfg.Server.Host,
		"port":        cfg.Server.Port,
		"environment": cfg.Environment,
	}).Info("Starting SmartUrine dashboard server")

	now := time.Now()
	registry := store.NewRegistry(store.SeedPatients(now), store.SeedDoctors(), logger)

	alertStore, err := openAlertLog(cfg.AlertLog, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open alert log")
	}
	defer alertStore.Close()

	if err := seedAlertLog(alertStore, now); err != nil {
		logger.WithError(err).Fatal("Failed to seed alert log")
	}

	alerts := service.NewAlertService(logger, alertStore, registry)
	classifier, err := service.NewClassifierService(logger, cfg.Classifier.CacheSize)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create classifier")
	}

	server := api.NewServer(configManager, logger, api.Services{
		Auth:       service.NewAuthService(logger, registry),
		Roster:     service.NewRosterService(logger, registry, alerts),
		Alerts:     alerts,
		Export:     service.NewExportService(logger, registry),
		Classifier: classifier,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

// openAlertLog opens the configured alert log backend. The postgres profile
// runs its schema migrations first; sqlite creates its own schema inline.
func openAlertLog(cfg domain.AlertLogConfig, logger *logrus.Logger) (alertlog.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		runner, err := database.NewMigrationRunner(cfg.DSN, cfg.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		defer runner.Close()
		if err := runner.Up(context.Background()); err != nil {
			return nil, err
		}
		return alertlog.NewPostgresStoreFromURL(cfg.DSN)
	default:
		return alertlog.NewSQLiteStore(cfg.DSN)
	}
}

// seedAlertLog loads the demo alert backlog into a fresh log. Existing
// entries mean a persistent backend carried over; leave it alone.
func seedAlertLog(alertStore alertlog.Store, now time.Time) error {
	ctx := context.Background()
	count, err := alertStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, seeded := range store.SeedAlerts(now) {
		a := seeded
		if err := alertStore.Insert(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}
