package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/home72_test")
	t.Setenv("CRON_SECRET", "secret")
	t.Setenv("APP_BASE_URL", "https://home72.example.com")
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, BotModeWebhook, cfg.BotMode)
		require.Equal(t, ":8080", cfg.ListenAddr)
		require.Equal(t, "Home72 <noreply@home72.otomasikan.com>", cfg.EmailFrom)
		require.False(t, cfg.EmailEnabled())
		require.False(t, cfg.StorageEnabled())
	})

	t.Run("missing required vars", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("CRON_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN is required")
		require.Contains(t, err.Error(), "DATABASE_URL is required")
		require.Contains(t, err.Error(), "CRON_SECRET is required")
	})

	t.Run("webhook mode requires base url", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_BASE_URL", "")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "APP_BASE_URL is required in webhook mode")
	})

	t.Run("polling mode needs no base url", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_BASE_URL", "")
		t.Setenv("TELEGRAM_BOT_MODE", "polling")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, BotModePolling, cfg.BotMode)
	})

	t.Run("invalid bot mode", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TELEGRAM_BOT_MODE", "carrier-pigeon")

		_, err := Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "TELEGRAM_BOT_MODE")
	})

	t.Run("admin chat id parsed", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "123456789")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, int64(123456789), cfg.TelegramAdminChatID)
	})

	t.Run("invalid admin chat id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "not-a-number")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("webhook url", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "https://home72.example.com/api/telegram/webhook", cfg.WebhookURL())
	})

	t.Run("trailing slash trimmed from base url", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("APP_BASE_URL", "https://home72.example.com/")

		cfg, err := Load()
		require.NoError(t, err)
		require.Equal(t, "https://home72.example.com", cfg.AppBaseURL)
	})
}
