package bot

import (
	"context"

	tgbot "github.com/go-telegram/bot"

	"github.com/otomasikan/home72/internal/logger"
)

// NotifyAdmin sends a message to the configured admin chat. A missing admin
// chat id disables notifications silently.
func (b *Bot) NotifyAdmin(ctx context.Context, tg TelegramAPI, text string) {
	if b.cfg.TelegramAdminChatID == 0 {
		return
	}

	_, err := tg.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: b.cfg.TelegramAdminChatID,
		Text:   text,
	})
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to notify admin")
	}
}

// NotifyAdminDirect notifies the admin over the bot's own connection, for
// callers outside an update handler (REST, cron).
func (b *Bot) NotifyAdminDirect(ctx context.Context, text string) {
	b.NotifyAdmin(ctx, b.bot, text)
}

// NotifyChat sends a plain message to a chat over the bot's own connection.
func (b *Bot) NotifyChat(ctx context.Context, chatID int64, text string) {
	_, err := b.bot.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to notify chat")
	}
}
