// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/repository"
	"github.com/otomasikan/home72/internal/storage"
)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot         *bot.Bot
	cfg         *config.Config
	store       storage.ObjectStore
	sessionRepo *repository.SessionRepository
	tenantRepo  *repository.TenantRepository
	paymentRepo *repository.PaymentRepository
	reportRepo  *repository.ReportRepository

	// chatLocks serializes updates per chat so the session state machine
	// never sees two updates from the same chat at once.
	chatLocksMu sync.Mutex
	chatLocks   map[int64]*sync.Mutex
}

// New creates a new Bot instance.
func New(cfg *config.Config, pool *pgxpool.Pool, store storage.ObjectStore) (*Bot, error) {
	b := &Bot{
		cfg:         cfg,
		store:       store,
		sessionRepo: repository.NewSessionRepository(pool),
		tenantRepo:  repository.NewTenantRepository(pool),
		paymentRepo: repository.NewPaymentRepository(pool),
		reportRepo:  repository.NewReportRepository(pool),
		chatLocks:   make(map[int64]*sync.Mutex),
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	return b, nil
}

// Start begins receiving updates, long-polling or serving the webhook
// depending on config.
func (b *Bot) Start(ctx context.Context) {
	if b.cfg.BotMode == config.BotModeWebhook {
		if err := b.SetWebhook(ctx); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to set webhook, falling back to polling")
			b.bot.Start(ctx)
			return
		}
		logger.Log.Info().Str("url", b.cfg.WebhookURL()).Msg("Bot serving webhook updates")
		b.bot.StartWebhook(ctx)
		return
	}

	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// SetWebhook registers the webhook URL with Telegram.
func (b *Bot) SetWebhook(ctx context.Context) error {
	_, err := b.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL: b.cfg.WebhookURL(),
	})
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	return nil
}

// WebhookHandler returns the HTTP handler that feeds webhook updates into
// the bot.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return b.bot.WebhookHandler()
}

// defaultHandler receives every update and runs it through the per-chat
// state machine.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleUpdateCore(ctx, tgBot, update)
}

func (b *Bot) handleUpdateCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	lock := b.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	logger.Log.Info().
		Str("chat", logger.HashChatID(chatID)).
		Bool("has_photo", len(update.Message.Photo) > 0).
		Msg("Received update")

	b.dispatch(ctx, tg, update)
}

func (b *Bot) chatLock(chatID int64) *sync.Mutex {
	b.chatLocksMu.Lock()
	defer b.chatLocksMu.Unlock()

	lock, ok := b.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		b.chatLocks[chatID] = lock
	}
	return lock
}
