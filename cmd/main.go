package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"nearbyserve/config"
	"nearbyserve/pkg/api"
	"nearbyserve/pkg/logger"
	"nearbyserve/pkg/notify"
	"nearbyserve/pkg/watch"
	"nearbyserve/service"
	"nearbyserve/storage"
	"nearbyserve/storage/memory"
	"nearbyserve/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		stg storage.IStorage
		err error
	)
	switch cfg.StorageDriver {
	case "postgres":
		stg, err = postgres.New(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize postgres storage", logger.Error(err))
			os.Exit(1)
		}
	default:
		log.Info("using in-memory storage")
		stg = memory.New(log)
	}
	defer stg.Close()

	svc := service.New(stg, log, cfg.RecipientTTL)

	var notifier notify.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, log)
		if err != nil {
			log.Error("failed to initialize telegram notifier", logger.Error(err))
			os.Exit(1)
		}
		notifier = tg
	} else {
		notifier = &notify.LogNotifier{Log: log}
	}

	watcher := watch.New(stg, notifier, cfg.PollInterval, log)
	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("watcher stopped", logger.Error(err))
		}
	}()

	server := api.New(svc, log)
	go func() {
		log.Info("HTTP API listening", logger.Int("port", cfg.AppPort))
		if err := server.Run(cfg.AppPort); err != nil {
			log.Error("HTTP server stopped", logger.Error(err))
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Info("shutting down")
}
