package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/mailer"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
)

// reminderDays are the distances from the due date that trigger an email.
var reminderDays = map[int]bool{7: true, 3: true, 1: true, 0: true}

type reminderResult struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Skipped int      `json:"skipped"`
	Details []string `json:"details"`
}

// handlePaymentReminders sweeps active tenants with email addresses and
// sends rent reminders at H-7, H-3, H-1 and the due date, skipping months
// already verified. Guarded by the cron bearer secret.
func (s *Server) handlePaymentReminders(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeCron(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if s.mail == nil {
		writeError(w, http.StatusServiceUnavailable, "email is not configured")
		return
	}

	tenants, err := s.tenantRepo.ListActiveWithEmail(r.Context())
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list tenants for reminders")
		writeError(w, http.StatusInternalServerError, "failed to list tenants")
		return
	}

	result := reminderResult{Details: []string{}}
	now := time.Now()

	for _, tenant := range tenants {
		daysLeft := daysUntil(now, tenant.DueDate)
		if !reminderDays[daysLeft] {
			result.Skipped++
			continue
		}

		if s.monthAlreadyVerified(r, &tenant) {
			result.Skipped++
			result.Details = append(result.Details, tenant.RoomNumber+": already paid")
			continue
		}

		subject, html := mailer.ReminderEmail(tenant.Name, tenant.RoomNumber, tenant.RoomPrice, tenant.DueDate, daysLeft)
		if err := s.mail.Send(r.Context(), *tenant.Email, subject, html); err != nil {
			logger.Log.Error().Err(err).
				Str("tenant", logger.HashTenantID(tenant.ID)).
				Msg("Failed to send reminder email")
			result.Failed++
			result.Details = append(result.Details, tenant.RoomNumber+": send failed")
			continue
		}

		result.Sent++
		result.Details = append(result.Details, tenant.RoomNumber+": reminder sent")
	}

	logger.Log.Info().
		Int("sent", result.Sent).
		Int("failed", result.Failed).
		Int("skipped", result.Skipped).
		Msg("Reminder sweep finished")

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) authorizeCron(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.CronSecret)) == 1
}

// monthAlreadyVerified checks the current month, not the due-date month, so
// early-next-month due dates still honor a payment made this cycle.
func (s *Server) monthAlreadyVerified(r *http.Request, tenant *repository.TenantWithRoom) bool {
	month := time.Now().Format(models.MonthLayout)
	payment, err := s.paymentRepo.GetByTenantAndMonth(r.Context(), tenant.ID, month)
	if err != nil {
		return false
	}
	return payment.Status == models.PaymentStatusVerified
}

// daysUntil counts whole calendar days from now to the due date.
func daysUntil(now, due time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(nowDay).Hours() / 24)
}
