// Package invoice renders rent payment invoices as PDF.
package invoice

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/otomasikan/home72/internal/mailer"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
)

// Data carries everything one invoice needs.
type Data struct {
	Payment *models.Payment
	Tenant  *repository.TenantWithRoom
}

// Render produces the invoice PDF for a payment.
func Render(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(37, 99, 235)
	pdf.Rect(0, 0, 210, 40, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(15, 12)
	pdf.Cell(100, 10, "Home72")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(15, 24)
	pdf.Cell(100, 6, "Invoice Pembayaran Sewa Kos")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(150, 15)
	pdf.Cell(45, 6, "#"+invoiceNumber(data.Payment.ID))

	// Tenant block.
	pdf.SetTextColor(17, 24, 39)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(15, 52)
	pdf.Cell(100, 6, "Ditagihkan kepada:")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(15, 60)
	pdf.Cell(100, 6, data.Tenant.Name)
	pdf.SetXY(15, 67)
	pdf.Cell(100, 6, "Kamar "+data.Tenant.RoomNumber)
	pdf.SetXY(15, 74)
	pdf.Cell(100, 6, data.Tenant.Phone)

	// Detail rows.
	y := 92.0
	rows := [][2]string{
		{"Periode", mailer.MonthLabel(data.Payment.Month)},
		{"Metode", methodLabel(data.Payment.PaymentMethod)},
		{"Jumlah", models.FormatRupiah(data.Payment.Amount)},
		{"Status", statusLabel(data.Payment.Status)},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetXY(15, y)
		pdf.Cell(40, 7, row[0])
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetXY(60, y)
		pdf.Cell(100, 7, row[1])
		y += 9
	}

	if data.Payment.Status == models.PaymentStatusVerified {
		pdf.SetDrawColor(22, 163, 74)
		pdf.SetTextColor(22, 163, 74)
		pdf.SetLineWidth(1.2)
		pdf.Rect(140, 110, 50, 20, "D")
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetXY(140, 116)
		pdf.CellFormat(50, 8, "LUNAS", "", 0, "C", false, 0, "")
	}

	// Footer.
	pdf.SetTextColor(107, 114, 128)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(15, 270)
	pdf.Cell(180, 5, "Dokumen ini dibuat otomatis oleh sistem Home72 dan sah tanpa tanda tangan.")
	pdf.SetXY(15, 276)
	pdf.Cell(180, 5, "Dicetak "+time.Now().Format("02-01-2006 15:04"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// invoiceNumber shortens a payment uuid to a printable invoice id.
func invoiceNumber(paymentID string) string {
	id := strings.ReplaceAll(paymentID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func methodLabel(method string) string {
	switch method {
	case models.PaymentMethodTransfer:
		return "Transfer Bank"
	case models.PaymentMethodQRIS:
		return "QRIS"
	case models.PaymentMethodCash:
		return "Tunai"
	default:
		return method
	}
}

func statusLabel(status string) string {
	switch status {
	case models.PaymentStatusVerified:
		return "Lunas"
	case models.PaymentStatusPending:
		return "Menunggu Verifikasi"
	case models.PaymentStatusRejected:
		return "Ditolak"
	default:
		return status
	}
}
