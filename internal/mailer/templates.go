package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/models"
)

// ReminderEmail renders the rent reminder sent H-7, H-3, H-1 and on the due
// date itself. daysLeft is the number of days until the due date; 0 means due
// today.
func ReminderEmail(name, roomNumber string, amount decimal.Decimal, dueDate time.Time, daysLeft int) (subject, html string) {
	var urgency string
	switch {
	case daysLeft <= 0:
		urgency = "jatuh tempo <strong>hari ini</strong>"
	case daysLeft == 1:
		urgency = "jatuh tempo <strong>besok</strong>"
	default:
		urgency = fmt.Sprintf("jatuh tempo dalam <strong>%d hari</strong>", daysLeft)
	}

	subject = fmt.Sprintf("Pengingat Pembayaran Kos - Kamar %s", roomNumber)
	html = fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <div style="background:#2563eb;color:#fff;padding:24px;border-radius:8px 8px 0 0">
    <h2 style="margin:0">Home72</h2>
  </div>
  <div style="padding:24px;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 8px 8px">
    <p>Halo <strong>%s</strong>,</p>
    <p>Pembayaran sewa kamar <strong>%s</strong> sebesar <strong>%s</strong> %s
    (%s).</p>
    <p>Silakan lakukan pembayaran melalui transfer atau QRIS, lalu kirim bukti
    pembayaran melalui bot Telegram kami.</p>
    <p style="color:#6b7280;font-size:12px">Email ini dikirim otomatis oleh sistem Home72.</p>
  </div>
</div>`, name, roomNumber, models.FormatRupiah(amount), urgency, dueDate.Format("2 January 2006"))
	return subject, html
}

// VerifiedEmail renders the confirmation sent when an admin verifies a
// payment.
func VerifiedEmail(name, roomNumber, month string, amount decimal.Decimal) (subject, html string) {
	subject = fmt.Sprintf("Pembayaran Dikonfirmasi - Kamar %s", roomNumber)
	html = fmt.Sprintf(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto">
  <div style="background:#16a34a;color:#fff;padding:24px;border-radius:8px 8px 0 0">
    <h2 style="margin:0">Pembayaran Diterima ✅</h2>
  </div>
  <div style="padding:24px;border:1px solid #e5e7eb;border-top:none;border-radius:0 0 8px 8px">
    <p>Halo <strong>%s</strong>,</p>
    <p>Pembayaran sewa kamar <strong>%s</strong> untuk periode <strong>%s</strong>
    sebesar <strong>%s</strong> telah kami terima dan verifikasi.</p>
    <p>Terima kasih sudah membayar tepat waktu!</p>
    <p style="color:#6b7280;font-size:12px">Email ini dikirim otomatis oleh sistem Home72.</p>
  </div>
</div>`, name, roomNumber, MonthLabel(month), models.FormatRupiah(amount))
	return subject, html
}

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthLabel turns a YYYY-MM period into an Indonesian label like
// "September 2026". Unparseable input is returned unchanged.
func MonthLabel(month string) string {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return month
	}
	t, err := time.Parse(models.MonthLayout, month)
	if err != nil {
		return month
	}
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}
