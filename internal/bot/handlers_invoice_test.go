package bot

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/otomasikan/home72/internal/bot/mocks"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
)

func TestHandleInvoice(t *testing.T) {
	pool := TestDB(t)
	b, _ := setupTestBot(t, pool)
	ctx := context.Background()

	tenant := seedTenant(t, ctx, pool, "E5", "Eka Putri")

	const chatID = int64(559)
	mockBot := mocks.NewMockBot()

	b.handleUpdateCore(ctx, mockBot, mocks.MessageUpdate(chatID, chatID, "E5"))

	t.Run("no verified payment", func(t *testing.T) {
		b.handleUpdateCore(ctx, mockBot, mocks.MessageUpdate(chatID, chatID, "/invoice"))
		require.Contains(t, mockBot.LastSentMessage().Text, "Belum ada pembayaran terverifikasi")
		require.Equal(t, 0, len(mockBot.SentDocuments))
	})

	t.Run("sends pdf for verified payment", func(t *testing.T) {
		paymentRepo := repository.NewPaymentRepository(pool)
		payment := &models.Payment{
			TenantID: tenant.ID,
			Month:    "2026-08",
			Amount:   decimal.NewFromInt(1500000),
		}
		require.NoError(t, paymentRepo.Create(ctx, payment))
		_, err := paymentRepo.SetStatus(ctx, payment.ID, models.PaymentStatusVerified)
		require.NoError(t, err)

		b.handleUpdateCore(ctx, mockBot, mocks.MessageUpdate(chatID, chatID, "/invoice"))

		doc := mockBot.LastSentDocument()
		require.NotNil(t, doc)
		require.Equal(t, "invoice-2026-08.pdf", doc.Filename)
		require.Contains(t, doc.Caption, "2026-08")
	})

	t.Run("database failure is not mistaken for missing invoice", func(t *testing.T) {
		badPool, err := pgxpool.New(ctx, "postgres://127.0.0.1:1/home72?connect_timeout=1")
		require.NoError(t, err)
		t.Cleanup(badPool.Close)

		b.paymentRepo = repository.NewPaymentRepository(badPool)
		t.Cleanup(func() { b.paymentRepo = repository.NewPaymentRepository(pool) })

		docsBefore := len(mockBot.SentDocuments)
		b.handleUpdateCore(ctx, mockBot, mocks.MessageUpdate(chatID, chatID, "/invoice"))

		require.Contains(t, mockBot.LastSentMessage().Text, "Terjadi kesalahan")
		require.Len(t, mockBot.SentDocuments, docsBefore)
	})
}
