package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paybot/internal/amqp"
	"paybot/internal/config"
	applog "paybot/internal/log"
	gsheet "paybot/internal/sheets/google"
	"paybot/internal/storage"
	"paybot/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = "worker"
	logCfg.Format = cfg.LogFormat
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting paybot-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sheetsClient, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized",
		"spreadsheet_id", cfg.GoogleSpreadsheetID,
		"sheet", cfg.GoogleSheetName)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(store, sheetsClient, cfg.MirrorBatchSize)

	// On startup, mirror anything a lost message left behind.
	logger.Info("Performing startup catch-up scan")
	if err := mirrorWorker.ProcessPending(ctx); err != nil {
		logger.Error("Startup catch-up scan failed", "error", err)
		// Keep running; the periodic scan retries.
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return amqpClient.ConsumePaymentMirror(ctx, func(msg *amqp.PaymentMirrorMessage) error {
			return mirrorWorker.HandleMirrorMessage(ctx, msg)
		})
	})

	group.Go(func() error {
		return mirrorWorker.RunCatchUp(ctx, cfg.CatchUpInterval)
	})

	logger.Info("Worker running",
		"queue", cfg.AMQPQueue,
		"batch_size", cfg.MirrorBatchSize,
		"catchup_interval", cfg.CatchUpInterval)

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
