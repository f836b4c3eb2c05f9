package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"whalewatch/internal/alert"
	"whalewatch/internal/classify"
	"whalewatch/internal/config"
	"whalewatch/internal/database"
	"whalewatch/internal/exchange"
	"whalewatch/internal/monitor"
	"whalewatch/internal/tradelog"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The header check runs here, single-threaded, before any supervisor
	// starts.
	tradeLog, err := tradelog.Open(cfg.Log.Path)
	if err != nil {
		log.Fatalf("cannot open trade log: %v", err)
	}
	defer tradeLog.Close()
	sinks := []exchange.Sink{tradeLog}

	if cfg.Database.Enabled {
		repo, err := database.NewPostgresRepository(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("cannot connect to database: %v", err)
		}
		defer repo.Close()
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("cannot migrate database: %v", err)
		}
		sinks = append(sinks, repo)
	}

	var notifier alert.Notifier
	if cfg.Alert.WebhookURL != "" {
		notifier = alert.NewWebhookNotifier(cfg.Alert.WebhookURL)
	}
	renderer, err := alert.NewRenderer(os.Stdout, logger, notifier, cfg.Alert.NotifyNotional)
	if err != nil {
		log.Fatalf("cannot build renderer: %v", err)
	}

	fleet := monitor.New(logger, cfg.Monitor, classify.New(cfg.Monitor), sinks, renderer, nil)
	if err := fleet.Run(ctx); err != nil {
		log.Fatalf("fleet failed: %v", err)
	}
}
