package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"paybot/internal/amqp"
	"paybot/internal/bot"
	"paybot/internal/config"
	apphttp "paybot/internal/http"
	applog "paybot/internal/log"
	"paybot/internal/middleware/ratelimit"
	"paybot/internal/registry"
	"paybot/internal/services"
	"paybot/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Format = cfg.LogFormat
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting paybot")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DiscordToken == "" {
		logger.Error("DISCORD_TOKEN is required")
		os.Exit(1)
	}

	// Choose data backend (default: sqlite). Memory is for local runs
	// without a database file.
	var (
		store storage.Store
		err   error
	)
	switch cfg.DataBackend {
	case "memory":
		store = storage.NewMemoryStore()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		store, err = storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg := registry.New(store)
	if err := reg.Refresh(ctx); err != nil {
		logger.Error("Failed to load name registry", "error", err)
		os.Exit(1)
	}

	// AMQP is optional; without it the worker's catch-up scan still mirrors
	// every record eventually.
	var publisher services.MirrorPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, mirror messages disabled", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := services.NewPaymentService(store, reg, publisher)
	defer svc.Close()

	discordBot, err := bot.New(cfg.DiscordToken, cfg.DiscordGuildID, svc, logger.WithComponent("bot"))
	if err != nil {
		logger.Error("Failed to create Discord bot", "error", err)
		os.Exit(1)
	}
	if err := discordBot.Start(); err != nil {
		logger.Error("Failed to start Discord bot", "error", err)
		os.Exit(1)
	}
	defer discordBot.Close()

	limiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	defer limiter.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, svc, limiter)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("Starting operational HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Stopped gracefully")
}
