package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
)

func testData(status string) Data {
	verifiedAt := time.Date(2026, 9, 5, 10, 0, 0, 0, time.UTC)
	payment := &models.Payment{
		ID:            "0b9f6a1e-3c2d-4e5f-8a7b-9c0d1e2f3a4b",
		Month:         "2026-09",
		Amount:        decimal.NewFromInt(1500000),
		Status:        status,
		PaymentMethod: models.PaymentMethodTransfer,
	}
	if status == models.PaymentStatusVerified {
		payment.VerifiedAt = &verifiedAt
	}
	return Data{
		Payment: payment,
		Tenant: &repository.TenantWithRoom{
			Tenant: models.Tenant{
				Name:  "Budi Santoso",
				Phone: "08123456789",
			},
			RoomNumber: "A1",
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("verified payment", func(t *testing.T) {
		pdf, err := Render(testData(models.PaymentStatusVerified))
		require.NoError(t, err)
		require.NotEmpty(t, pdf)
		require.Equal(t, "%PDF", string(pdf[:4]))
	})

	t.Run("pending payment", func(t *testing.T) {
		pdf, err := Render(testData(models.PaymentStatusPending))
		require.NoError(t, err)
		require.Equal(t, "%PDF", string(pdf[:4]))
	})
}

func TestInvoiceNumber(t *testing.T) {
	require.Equal(t, "0B9F6A1E", invoiceNumber("0b9f6a1e-3c2d-4e5f-8a7b-9c0d1e2f3a4b"))
	require.Equal(t, "ABC", invoiceNumber("abc"))
}

func TestLabels(t *testing.T) {
	require.Equal(t, "Transfer Bank", methodLabel(models.PaymentMethodTransfer))
	require.Equal(t, "QRIS", methodLabel(models.PaymentMethodQRIS))
	require.Equal(t, "Lunas", statusLabel(models.PaymentStatusVerified))
	require.Equal(t, "Menunggu Verifikasi", statusLabel(models.PaymentStatusPending))
}
