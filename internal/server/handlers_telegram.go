package server

import (
	"net/http"

	"github.com/otomasikan/home72/internal/logger"
)

// handleTelegramSetup registers the webhook URL with Telegram.
func (s *Server) handleTelegramSetup(w http.ResponseWriter, r *http.Request) {
	if s.bot == nil {
		writeError(w, http.StatusServiceUnavailable, "bot is not configured")
		return
	}
	if err := s.bot.SetWebhook(r.Context()); err != nil {
		logger.Log.Error().Err(err).Msg("Failed to set webhook")
		writeError(w, http.StatusInternalServerError, "failed to set webhook")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"url":    s.cfg.WebhookURL(),
	})
}

// handleTelegramWebhook feeds inbound updates into the bot. Telegram only
// needs a 200; the bot processes the update on its own goroutine.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.bot == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.bot.WebhookHandler().ServeHTTP(w, r)
}
