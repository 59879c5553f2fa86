// Package main is the entry point for the Home72 kosan management service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/otomasikan/home72/internal/bot"
	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/mailer"
	"github.com/otomasikan/home72/internal/server"
	"github.com/otomasikan/home72/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("home72 %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	var store storage.ObjectStore
	if cfg.StorageEnabled() {
		minioStore, err := storage.New(cfg)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to object storage")
		}
		if err := minioStore.EnsureBuckets(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to prepare storage buckets")
		}
		store = minioStore
	} else {
		logger.Log.Warn().Msg("Object storage not configured, media relay disabled")
	}

	var mail mailer.Sender
	if m := mailer.New(cfg); m != nil {
		mail = m
	} else {
		logger.Log.Warn().Msg("Resend not configured, email disabled")
	}

	telegramBot, err := bot.New(cfg, pool, store)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create bot")
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	go telegramBot.Start(ctx)

	srv := server.New(cfg, pool, store, mail, telegramBot)
	if err := srv.Run(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("HTTP server failed")
	}
}
