// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Bot run modes.
const (
	BotModeWebhook = "webhook"
	BotModePolling = "polling"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken    string
	TelegramAdminChatID int64
	BotMode             string

	DatabaseURL string
	ListenAddr  string
	AppBaseURL  string
	LogLevel    string

	CronSecret string

	ResendAPIKey string
	EmailFrom    string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageUseSSL    bool
	StoragePublicURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		BotMode:          os.Getenv("TELEGRAM_BOT_MODE"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ListenAddr:       os.Getenv("LISTEN_ADDR"),
		AppBaseURL:       strings.TrimSuffix(os.Getenv("APP_BASE_URL"), "/"),
		LogLevel:         os.Getenv("LOG_LEVEL"),
		CronSecret:       os.Getenv("CRON_SECRET"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StoragePublicURL: strings.TrimSuffix(os.Getenv("STORAGE_PUBLIC_URL"), "/"),
	}

	cfg.StorageUseSSL = os.Getenv("STORAGE_USE_SSL") != "false"

	if cfg.BotMode == "" {
		cfg.BotMode = BotModeWebhook
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = "Home72 <noreply@home72.otomasikan.com>"
	}

	if adminStr := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); adminStr != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(adminStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID %q: %w", adminStr, err)
		}
		cfg.TelegramAdminChatID = id
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.CronSecret == "" {
		errs = append(errs, "CRON_SECRET is required")
	}

	if c.BotMode != BotModeWebhook && c.BotMode != BotModePolling {
		errs = append(errs, fmt.Sprintf("TELEGRAM_BOT_MODE must be %q or %q", BotModeWebhook, BotModePolling))
	}

	if c.BotMode == BotModeWebhook && c.AppBaseURL == "" {
		errs = append(errs, "APP_BASE_URL is required in webhook mode")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// WebhookURL returns the full URL Telegram should deliver updates to.
func (c *Config) WebhookURL() string {
	return c.AppBaseURL + "/api/telegram/webhook"
}

// EmailEnabled reports whether the transactional email provider is configured.
func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

// StorageEnabled reports whether the object storage backend is configured.
func (c *Config) StorageEnabled() bool {
	return c.StorageEndpoint != "" && c.StorageAccessKey != "" && c.StorageSecretKey != ""
}
