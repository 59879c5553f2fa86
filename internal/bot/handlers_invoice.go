package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	tgbot "github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5"

	"github.com/otomasikan/home72/internal/invoice"
	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
)

// handleInvoice renders the last verified payment as a PDF and sends it as
// a document.
func (b *Bot) handleInvoice(ctx context.Context, tg TelegramAPI, session *models.Session) {
	chatID := session.ChatID

	if !b.requireLinked(ctx, tg, session) {
		return
	}

	tenant, err := b.tenantRepo.GetWithRoom(ctx, *session.TenantID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load tenant for invoice")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	payment, err := b.paymentRepo.LastVerified(ctx, tenant.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		b.reply(ctx, tg, chatID, "Belum ada pembayaran terverifikasi, jadi belum ada invoice.")
		return
	}
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to load last verified payment")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	pdf, err := invoice.Render(invoice.Data{Payment: payment, Tenant: tenant})
	if err != nil {
		logger.Log.Error().Err(err).
			Str("payment_id", payment.ID).
			Msg("Failed to render invoice")
		b.reply(ctx, tg, chatID, "❌ Gagal membuat invoice. Silakan coba lagi.")
		return
	}

	_, err = tg.SendDocument(ctx, &tgbot.SendDocumentParams{
		ChatID: chatID,
		Document: &tgmodels.InputFileUpload{
			Filename: fmt.Sprintf("invoice-%s.pdf", payment.Month),
			Data:     bytes.NewReader(pdf),
		},
		Caption: fmt.Sprintf("Invoice pembayaran %s", payment.Month),
	})
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to send invoice document")
		b.reply(ctx, tg, chatID, "❌ Gagal mengirim invoice. Silakan coba lagi.")
	}
}
