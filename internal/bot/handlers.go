package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/storage"
)

const helpText = `📚 *Perintah yang tersedia*

• /bayar - Kirim bukti pembayaran sewa
• /komplain - Laporkan keluhan atau kerusakan
• /status - Lihat status pembayaran terakhir
• /invoice - Unduh invoice pembayaran terakhir
• /batal - Batalkan aksi yang sedang berjalan
• /help - Tampilkan pesan ini`

// dispatch routes one message through the session state machine. Commands
// are handled first; anything else falls through to the current state.
func (b *Bot) dispatch(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	chatID := update.Message.Chat.ID

	session, err := b.sessionRepo.GetOrCreate(ctx, chatID)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to load session")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, tg, update, session, text)
		return
	}

	switch session.State {
	case models.SessionStateAwaitingRoom:
		b.handleAwaitingRoom(ctx, tg, update, session)
	case models.SessionStateAwaitingPaymentPhoto:
		b.handleAwaitingPaymentPhoto(ctx, tg, update, session)
	case models.SessionStateAwaitingComplaint:
		b.handleAwaitingComplaint(ctx, tg, update, session)
	default:
		b.reply(ctx, tg, chatID, "Ketik /help untuk melihat perintah yang tersedia.")
	}
}

func (b *Bot) handleCommand(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, session *models.Session, text string) {
	chatID := update.Message.Chat.ID

	command := text
	if idx := strings.IndexAny(command, " @"); idx != -1 {
		command = command[:idx]
	}

	switch command {
	case "/start":
		b.handleStart(ctx, tg, update, session)
	case "/help":
		b.reply(ctx, tg, chatID, helpText)
	case "/batal":
		b.handleCancel(ctx, tg, session)
	case "/bayar":
		b.handlePay(ctx, tg, session)
	case "/komplain":
		b.handleComplain(ctx, tg, session)
	case "/status":
		b.handleStatus(ctx, tg, session)
	case "/invoice":
		b.handleInvoice(ctx, tg, session)
	default:
		b.reply(ctx, tg, chatID, "Perintah tidak dikenal. Ketik /help untuk daftar perintah.")
	}
}

// handleStart always restarts registration, so a linked chat can re-register
// after a room change.
func (b *Bot) handleStart(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, session *models.Session) {
	chatID := session.ChatID

	if err := b.sessionRepo.SetState(ctx, chatID, models.SessionStateAwaitingRoom); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to reset session state")
	}

	if session.Linked() {
		tenant, err := b.tenantRepo.GetWithRoom(ctx, *session.TenantID)
		if err == nil {
			b.reply(ctx, tg, chatID, fmt.Sprintf(
				"👋 Halo %s! Anda terhubung dengan kamar %s.\n\nKetik nomor kamar Anda untuk menghubungkan ulang (contoh: A1).",
				tenant.Name, tenant.RoomNumber))
			return
		}
		logger.Log.Error().Err(err).Msg("Failed to load linked tenant")
	}

	b.reply(ctx, tg, chatID,
		"👋 Selamat datang di *Home72*!\n\nUntuk mulai, ketik nomor kamar Anda (contoh: A1).")
}

// handleAwaitingRoom links the chat to the active tenant of the typed room.
func (b *Bot) handleAwaitingRoom(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, session *models.Session) {
	chatID := session.ChatID
	roomNumber := strings.ToUpper(strings.TrimSpace(update.Message.Text))

	if roomNumber == "" {
		b.reply(ctx, tg, chatID, "Ketik nomor kamar Anda (contoh: A1).")
		return
	}

	tenant, err := b.tenantRepo.FindActiveByRoomNumber(ctx, roomNumber)
	if err != nil {
		b.reply(ctx, tg, chatID, fmt.Sprintf(
			"❌ Kamar %s tidak ditemukan atau belum memiliki penghuni aktif. Periksa kembali nomor kamar Anda.", roomNumber))
		return
	}

	if err := b.sessionRepo.Link(ctx, chatID, tenant.ID, tenant.RoomNumber); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to link session")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}
	if err := b.tenantRepo.SetTelegramChat(ctx, tenant.ID, chatID); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to store tenant chat id")
	}

	b.reply(ctx, tg, chatID, fmt.Sprintf(
		"✅ Berhasil terhubung!\n\nHalo *%s*, kamar *%s*.\n\n%s",
		tenant.Name, tenant.RoomNumber, helpText))
}

func (b *Bot) handlePay(ctx context.Context, tg TelegramAPI, session *models.Session) {
	chatID := session.ChatID

	if !b.requireLinked(ctx, tg, session) {
		return
	}

	if err := b.sessionRepo.SetState(ctx, chatID, models.SessionStateAwaitingPaymentPhoto); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to set session state")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	month := time.Now().Format(models.MonthLayout)
	b.reply(ctx, tg, chatID, fmt.Sprintf(
		"📸 Kirim foto bukti pembayaran untuk bulan %s.\n\nKetik /batal untuk membatalkan.", month))
}

// handleAwaitingPaymentPhoto relays the proof photo to object storage and
// records a pending payment for the current month.
func (b *Bot) handleAwaitingPaymentPhoto(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, session *models.Session) {
	chatID := session.ChatID

	if len(update.Message.Photo) == 0 {
		b.reply(ctx, tg, chatID, "Kirim foto bukti pembayaran, atau ketik /batal untuk membatalkan.")
		return
	}

	tenant, err := b.tenantRepo.GetWithRoom(ctx, *session.TenantID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load tenant for payment")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	proofURL, err := b.relayLargestPhoto(ctx, tg, update.Message.Photo, storage.BucketPaymentProofs)
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to relay payment proof")
		b.reply(ctx, tg, chatID, "❌ Gagal mengunggah foto. Silakan coba lagi.")
		return
	}

	payment := &models.Payment{
		TenantID:      tenant.ID,
		Month:         time.Now().Format(models.MonthLayout),
		Amount:        tenant.RoomPrice,
		PaymentMethod: models.PaymentMethodTransfer,
		ProofURL:      &proofURL,
	}
	if err := b.paymentRepo.Create(ctx, payment); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create payment")
		b.reply(ctx, tg, chatID, "❌ Gagal menyimpan pembayaran. Silakan coba lagi.")
		return
	}

	if err := b.sessionRepo.SetState(ctx, chatID, models.SessionStateIdle); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to reset session state")
	}

	b.reply(ctx, tg, chatID, fmt.Sprintf(
		"✅ Bukti pembayaran %s untuk bulan %s diterima.\n\nMenunggu verifikasi admin.",
		models.FormatRupiah(payment.Amount), payment.Month))

	b.NotifyAdmin(ctx, tg, fmt.Sprintf(
		"💰 Bukti pembayaran baru\n\nPenghuni: %s\nKamar: %s\nBulan: %s\nJumlah: %s",
		tenant.Name, tenant.RoomNumber, payment.Month, models.FormatRupiah(payment.Amount)))
}

func (b *Bot) handleComplain(ctx context.Context, tg TelegramAPI, session *models.Session) {
	chatID := session.ChatID

	if !b.requireLinked(ctx, tg, session) {
		return
	}

	if err := b.sessionRepo.SetState(ctx, chatID, models.SessionStateAwaitingComplaint); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to set session state")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	b.reply(ctx, tg, chatID,
		"🛠 Tulis keluhan Anda. Anda juga bisa menyertakan foto.\n\nKetik /batal untuk membatalkan.")
}

// handleAwaitingComplaint records a maintenance report, with an optional
// photo relayed to storage.
func (b *Bot) handleAwaitingComplaint(ctx context.Context, tg TelegramAPI, update *tgmodels.Update, session *models.Session) {
	chatID := session.ChatID

	description := strings.TrimSpace(update.Message.Text)
	if description == "" {
		description = strings.TrimSpace(update.Message.Caption)
	}
	if description == "" && len(update.Message.Photo) == 0 {
		b.reply(ctx, tg, chatID, "Tulis keluhan Anda, atau ketik /batal untuk membatalkan.")
		return
	}
	if description == "" {
		description = "(foto tanpa keterangan)"
	}

	var photoURL *string
	if len(update.Message.Photo) > 0 {
		url, err := b.relayLargestPhoto(ctx, tg, update.Message.Photo, storage.BucketReportPhotos)
		if err != nil {
			logger.Log.Error().Err(err).
				Str("chat", logger.HashChatID(chatID)).
				Msg("Failed to relay report photo")
		} else {
			photoURL = &url
		}
	}

	report := &models.Report{
		TenantID: *session.TenantID,
		Message:  description,
		PhotoURL: photoURL,
	}
	if err := b.reportRepo.Create(ctx, report); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to create report")
		b.reply(ctx, tg, chatID, "❌ Gagal menyimpan komplain. Silakan coba lagi.")
		return
	}

	if err := b.sessionRepo.SetState(ctx, chatID, models.SessionStateIdle); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to reset session state")
	}

	b.reply(ctx, tg, chatID, "✅ Komplain Anda sudah dicatat. Admin akan segera menindaklanjuti.")

	roomNumber := ""
	if session.RoomNumber != nil {
		roomNumber = *session.RoomNumber
	}
	b.NotifyAdmin(ctx, tg, fmt.Sprintf(
		"🛠 Komplain baru\n\nKamar: %s\nKeluhan: %s", roomNumber, description))
}

func (b *Bot) handleStatus(ctx context.Context, tg TelegramAPI, session *models.Session) {
	chatID := session.ChatID

	if !b.requireLinked(ctx, tg, session) {
		return
	}

	tenant, err := b.tenantRepo.GetWithRoom(ctx, *session.TenantID)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to load tenant for status")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	payments, err := b.paymentRepo.ListByTenant(ctx, tenant.ID, 3)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list payments for status")
		b.reply(ctx, tg, chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *Status Kamar %s*\n\n", tenant.RoomNumber))
	sb.WriteString(fmt.Sprintf("Jatuh tempo berikutnya: %s\n\n", tenant.DueDate.Format("2 Jan 2006")))

	if len(payments) == 0 {
		sb.WriteString("Belum ada pembayaran tercatat.")
	} else {
		sb.WriteString("Pembayaran terakhir:\n")
		for _, p := range payments {
			sb.WriteString(fmt.Sprintf("%s %s - %s\n",
				statusIcon(p.Status), p.Month, models.FormatRupiah(p.Amount)))
		}
	}

	b.reply(ctx, tg, chatID, sb.String())
}

func (b *Bot) handleCancel(ctx context.Context, tg TelegramAPI, session *models.Session) {
	chatID := session.ChatID

	state := models.SessionStateIdle
	if !session.Linked() {
		state = models.SessionStateAwaitingRoom
	}
	if err := b.sessionRepo.SetState(ctx, chatID, state); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to cancel session state")
	}
	b.reply(ctx, tg, chatID, "Dibatalkan.")
}

// requireLinked prompts for the room number when the chat is not linked yet.
func (b *Bot) requireLinked(ctx context.Context, tg TelegramAPI, session *models.Session) bool {
	if session.Linked() {
		return true
	}
	b.reply(ctx, tg, session.ChatID,
		"Anda belum terhubung. Ketik nomor kamar Anda terlebih dahulu (contoh: A1).")
	return false
}

func (b *Bot) reply(ctx context.Context, tg TelegramAPI, chatID int64, text string) {
	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeMarkdown,
	})
	if err != nil {
		logger.Log.Error().Err(err).
			Str("chat", logger.HashChatID(chatID)).
			Msg("Failed to send message")
	}
}

func statusIcon(status string) string {
	switch status {
	case models.PaymentStatusVerified:
		return "✅"
	case models.PaymentStatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}
