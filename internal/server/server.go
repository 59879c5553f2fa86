// Package server exposes the HTTP API for rooms, bookings, tenants and
// payments, plus the Telegram webhook and the reminder cron endpoint.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/otomasikan/home72/internal/bot"
	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/logger"
	"github.com/otomasikan/home72/internal/mailer"
	"github.com/otomasikan/home72/internal/repository"
	"github.com/otomasikan/home72/internal/storage"
)

// Server wires the HTTP API to its dependencies.
type Server struct {
	cfg   *config.Config
	pool  *pgxpool.Pool
	store storage.ObjectStore
	mail  mailer.Sender
	bot   *bot.Bot

	roomRepo    *repository.RoomRepository
	tenantRepo  *repository.TenantRepository
	paymentRepo *repository.PaymentRepository
	reportRepo  *repository.ReportRepository
	bookingRepo *repository.BookingRepository

	httpServer *http.Server
}

// New creates a Server. store, mail and tgBot may be nil; the matching
// features degrade gracefully.
func New(cfg *config.Config, pool *pgxpool.Pool, store storage.ObjectStore, mail mailer.Sender, tgBot *bot.Bot) *Server {
	s := &Server{
		cfg:         cfg,
		pool:        pool,
		store:       store,
		mail:        mail,
		bot:         tgBot,
		roomRepo:    repository.NewRoomRepository(pool),
		tenantRepo:  repository.NewTenantRepository(pool),
		paymentRepo: repository.NewPaymentRepository(pool),
		reportRepo:  repository.NewReportRepository(pool),
		bookingRepo: repository.NewBookingRepository(pool),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Post("/", s.handleCreateRoom)
			r.Get("/{id}", s.handleGetRoom)
			r.Patch("/{id}", s.handleUpdateRoom)
			r.Delete("/{id}", s.handleDeleteRoom)
		})

		r.Route("/booking", func(r chi.Router) {
			r.Get("/", s.handleListBookings)
			r.Post("/", s.handleCreateBooking)
			r.Patch("/{id}", s.handleUpdateBooking)
			r.Post("/upload", s.handleBookingUpload)
		})

		r.Get("/tenants", s.handleListTenants)

		r.Route("/tenant", func(r chi.Router) {
			r.Post("/auth", s.handleTenantAuth)
			r.Get("/payment/history", s.handlePaymentHistory)
			r.Post("/payment/upload", s.handlePaymentUpload)
			r.Post("/payment/qris", s.handleQRISCreate)
			r.Get("/payment/qris", s.handleQRISStatus)
			r.Post("/complaints", s.handleCreateComplaint)
			r.Get("/complaints", s.handleListComplaints)
			r.Patch("/complaints/{id}", s.handleUpdateComplaint)
			r.Get("/invoice/{id}", s.handleInvoicePDF)
		})

		r.Put("/payments/verify", s.handleVerifyPayment)

		r.Get("/cron/payment-reminders", s.handlePaymentReminders)

		r.Get("/telegram/setup", s.handleTelegramSetup)
		r.Post("/telegram/webhook", s.handleTelegramWebhook)
	})

	return r
}

// Run serves HTTP until the context is canceled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info().Str("addr", s.cfg.ListenAddr).Msg("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
