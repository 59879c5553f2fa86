package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
	"github.com/otomasikan/home72/internal/storage"
)

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

// fakeSender records emails instead of calling Resend.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (f *fakeSender) Send(_ context.Context, to, subject, html string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, sentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

// fakeObjectStore hands back deterministic URLs without network access.
type fakeObjectStore struct {
	mu      sync.Mutex
	uploads int
}

var _ storage.ObjectStore = (*fakeObjectStore)(nil)

func (f *fakeObjectStore) Upload(_ context.Context, bucket, ext string, _ []byte, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	return fmt.Sprintf("https://storage.test/%s/object-%d%s", bucket, f.uploads, ext), nil
}

func testConfig() *config.Config {
	return &config.Config{
		TelegramBotToken: "test-token",
		DatabaseURL:      "test-url",
		CronSecret:       "cron-secret",
		ListenAddr:       ":0",
	}
}

func setupTestServer(t *testing.T) (*Server, *fakeObjectStore, *fakeSender, *pgxpool.Pool) {
	t.Helper()

	pool := database.TestDB(t)
	ctx := context.Background()

	require.NoError(t, database.RunMigrations(ctx, pool))
	database.CleanupTables(t, pool)

	store := &fakeObjectStore{}
	mail := &fakeSender{}
	s := New(testConfig(), pool, store, mail, nil)
	return s, store, mail, pool
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	s, _, _, _ := setupTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]string](t, rec)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "ok", body["db"])
}

func TestRoomCRUD(t *testing.T) {
	s, _, _, _ := setupTestServer(t)

	var roomID string

	t.Run("create", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/rooms", map[string]any{
			"room_number": "A1",
			"price":       "1500000",
			"capacity":    2,
			"facilities":  []string{"AC", "WiFi"},
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		room := decodeBody[models.Room](t, rec)
		require.NotEmpty(t, room.ID)
		require.Equal(t, models.RoomStatusAvailable, room.Status)
		roomID = room.ID
	})

	t.Run("create uppercases room number", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/rooms", map[string]any{
			"room_number": "b2",
			"price":       "1200000",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		room := decodeBody[models.Room](t, rec)
		require.Equal(t, "B2", room.RoomNumber)
	})

	t.Run("create requires room_number", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/rooms", map[string]any{"price": "1000000"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create requires positive price", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/rooms", map[string]any{"room_number": "A2"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/rooms", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		rooms := decodeBody[[]models.Room](t, rec)
		require.Len(t, rooms, 2)
	})

	t.Run("get", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/rooms/"+roomID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("patch", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/rooms/"+roomID, map[string]any{
			"status": models.RoomStatusMaintenance,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		room := decodeBody[models.Room](t, rec)
		require.Equal(t, models.RoomStatusMaintenance, room.Status)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodDelete, "/api/rooms/"+roomID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, s, http.MethodGet, "/api/rooms/"+roomID, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func seedRoomAndTenant(t *testing.T, pool *pgxpool.Pool, roomNumber string) (*models.Room, *models.Tenant) {
	t.Helper()
	ctx := context.Background()

	roomRepo := repository.NewRoomRepository(pool)
	room := &models.Room{RoomNumber: roomNumber, Price: decimal.NewFromInt(1500000)}
	require.NoError(t, roomRepo.Create(ctx, room))

	tenantRepo := repository.NewTenantRepository(pool)
	tenant := &models.Tenant{
		Name:      "Budi Santoso",
		Phone:     "08123456789",
		RoomID:    &room.ID,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.TenantStatusActive,
	}
	require.NoError(t, tenantRepo.Create(ctx, tenant))
	return room, tenant
}

func TestTenantAuth(t *testing.T) {
	s, _, _, pool := setupTestServer(t)
	seedRoomAndTenant(t, pool, "B1")

	t.Run("unknown room", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tenant/auth", map[string]string{"room_number": "Z9"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "room not found")
	})

	t.Run("vacant room", func(t *testing.T) {
		ctx := context.Background()
		require.NoError(t, repository.NewRoomRepository(pool).Create(ctx,
			&models.Room{RoomNumber: "B2", Price: decimal.NewFromInt(1000000)}))

		rec := doJSON(t, s, http.MethodPost, "/api/tenant/auth", map[string]string{"room_number": "B2"})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "no active tenant")
	})

	t.Run("success is case insensitive", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tenant/auth", map[string]string{"room_number": "b1"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Budi Santoso")
	})

	t.Run("list tenants", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/tenants", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		tenants := decodeBody[[]models.Tenant](t, rec)
		require.Len(t, tenants, 1)
		require.Equal(t, "Budi Santoso", tenants[0].Name)
	})
}

func TestBookingFlow(t *testing.T) {
	s, _, _, pool := setupTestServer(t)
	ctx := context.Background()

	roomRepo := repository.NewRoomRepository(pool)
	room := &models.Room{RoomNumber: "C1", Price: decimal.NewFromInt(1500000)}
	require.NoError(t, roomRepo.Create(ctx, room))

	var bookingID string

	t.Run("create", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/booking", map[string]any{
			"name":         "Calon Penghuni",
			"phone":        "08987654321",
			"room_id":      room.ID,
			"booking_date": "2026-09-15",
			"dp_amount":    "500000",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		booking := decodeBody[models.Booking](t, rec)
		require.Equal(t, models.BookingStatusPending, booking.Status)
		bookingID = booking.ID
	})

	t.Run("create validates fields", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/booking", map[string]any{"name": "X"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("confirm creates tenant and occupies room", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/booking/"+bookingID, map[string]string{"action": "confirm"})
		require.Equal(t, http.StatusOK, rec.Code)

		gotRoom, err := roomRepo.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, models.RoomStatusOccupied, gotRoom.Status)

		tenant, err := repository.NewTenantRepository(pool).FindActiveByRoomNumber(ctx, "C1")
		require.NoError(t, err)
		require.Equal(t, "Calon Penghuni", tenant.Name)
		require.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), tenant.DueDate.UTC())
	})

	t.Run("double confirm conflicts", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/booking/"+bookingID, map[string]string{"action": "confirm"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("booking an occupied room conflicts", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/booking", map[string]any{
			"name":         "Orang Kedua",
			"phone":        "08111111111",
			"room_id":      room.ID,
			"booking_date": "2026-09-20",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid action", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/booking/"+bookingID, map[string]string{"action": "explode"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPaymentUploadAndVerify(t *testing.T) {
	s, store, mail, pool := setupTestServer(t)
	_, tenant := seedRoomAndTenant(t, pool, "D1")

	email := "budi@example.com"
	ctx := context.Background()
	tenantRepo := repository.NewTenantRepository(pool)
	full, err := tenantRepo.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	full.Email = &email
	require.NoError(t, tenantRepo.Update(ctx, full))

	var paymentID string

	t.Run("multipart upload records pending payment", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "bukti.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff\xe0fakejpeg"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("tenant_id", tenant.ID))
		require.NoError(t, mw.WriteField("month", "2026-09"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/tenant/payment/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		payment := decodeBody[models.Payment](t, rec)
		require.Equal(t, models.PaymentStatusPending, payment.Status)
		require.NotNil(t, payment.ProofURL)
		require.Equal(t, 1, store.uploads)
		paymentID = payment.ID
	})

	t.Run("verify sends email", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPut, "/api/payments/verify", map[string]string{
			"id":     paymentID,
			"status": models.PaymentStatusVerified,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		payment := decodeBody[models.Payment](t, rec)
		require.Equal(t, models.PaymentStatusVerified, payment.Status)
		require.NotNil(t, payment.VerifiedAt)

		require.Len(t, mail.sent, 1)
		require.Equal(t, email, mail.sent[0].To)
		require.Contains(t, mail.sent[0].Subject, "Dikonfirmasi")
	})

	t.Run("verify rejects bad status", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPut, "/api/payments/verify", map[string]string{
			"id":     paymentID,
			"status": "maybe",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("history lists payments", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/tenant/payment/history?tenant_id="+tenant.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		payments := decodeBody[[]models.Payment](t, rec)
		require.Len(t, payments, 1)
	})

	t.Run("invoice pdf", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tenant/invoice/"+paymentID, nil)
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		require.Equal(t, "%PDF", rec.Body.String()[:4])
	})

	t.Run("upload with explicit amount", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "bukti2.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff\xe0fakejpeg"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("tenant_id", tenant.ID))
		require.NoError(t, mw.WriteField("month", "2026-10"))
		require.NoError(t, mw.WriteField("amount", "1250000"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/tenant/payment/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		payment := decodeBody[models.Payment](t, rec)
		require.True(t, payment.Amount.Equal(decimal.NewFromInt(1250000)))
	})
}

func TestQRISFlow(t *testing.T) {
	s, _, _, pool := setupTestServer(t)
	_, tenant := seedRoomAndTenant(t, pool, "E1")

	var paymentID string

	t.Run("create returns payload and data url", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tenant/payment/qris", map[string]any{
			"tenant_id": tenant.ID,
			"month":     "2026-09",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[map[string]any](t, rec)
		require.Contains(t, body["qr_url"], "data:image/png;base64,")
		require.Contains(t, body["payload"], "6304")

		payment := body["payment"].(map[string]any)
		paymentID = payment["id"].(string)
		require.Equal(t, models.PaymentMethodQRIS, payment["payment_method"])
	})

	t.Run("status pending", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/tenant/payment/qris?payment_id="+paymentID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[map[string]any](t, rec)
		require.Equal(t, models.PaymentStatusPending, body["status"])
	})

	t.Run("month validated", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPost, "/api/tenant/payment/qris", map[string]any{
			"tenant_id": tenant.ID,
			"month":     "September",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestComplaints(t *testing.T) {
	s, store, _, pool := setupTestServer(t)
	_, tenant := seedRoomAndTenant(t, pool, "F1")

	t.Run("create without photo", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("tenant_id", tenant.ID))
		require.NoError(t, mw.WriteField("message", "Lampu kamar mati"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/tenant/complaints", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		report := decodeBody[models.Report](t, rec)
		require.Equal(t, models.ReportStatusOpen, report.Status)
		require.Nil(t, report.PhotoURL)
		require.Equal(t, 0, store.uploads)
	})

	var reportID string

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/tenant/complaints?tenant_id="+tenant.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		reports := decodeBody[[]models.Report](t, rec)
		require.Len(t, reports, 1)
		reportID = reports[0].ID
	})

	t.Run("status update", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodPatch, "/api/tenant/complaints/"+reportID, map[string]string{
			"status": models.ReportStatusInProgress,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		report := decodeBody[models.Report](t, rec)
		require.Equal(t, models.ReportStatusInProgress, report.Status)

		rec = doJSON(t, s, http.MethodPatch, "/api/tenant/complaints/"+reportID, map[string]string{
			"status": "exploded",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create with photo", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "bocor.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("\xff\xd8\xff\xe0fakejpeg"))
		require.NoError(t, err)
		require.NoError(t, mw.WriteField("tenant_id", tenant.ID))
		require.NoError(t, mw.WriteField("message", "Keran wastafel bocor"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/tenant/complaints", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		report := decodeBody[models.Report](t, rec)
		require.NotNil(t, report.PhotoURL)
		require.Equal(t, 1, store.uploads)
	})
}

func TestCronReminders(t *testing.T) {
	s, _, mail, pool := setupTestServer(t)

	t.Run("missing bearer", func(t *testing.T) {
		rec := doJSON(t, s, http.MethodGet, "/api/cron/payment-reminders", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cron/payment-reminders", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	ctx := context.Background()
	roomRepo := repository.NewRoomRepository(pool)
	tenantRepo := repository.NewTenantRepository(pool)

	seed := func(roomNumber, email string, dueIn int) *models.Tenant {
		room := &models.Room{RoomNumber: roomNumber, Price: decimal.NewFromInt(1500000)}
		require.NoError(t, roomRepo.Create(ctx, room))

		due := time.Now().AddDate(0, 0, dueIn)
		tenant := &models.Tenant{
			Name:      "Penghuni " + roomNumber,
			Phone:     "0812000000",
			Email:     &email,
			RoomID:    &room.ID,
			StartDate: due.AddDate(0, -1, 0),
			DueDate:   due,
			Status:    models.TenantStatusActive,
		}
		require.NoError(t, tenantRepo.Create(ctx, tenant))
		return tenant
	}

	seed("G1", "g1@example.com", 3)
	seed("G2", "g2@example.com", 5)
	paid := seed("G3", "g3@example.com", 7)

	paymentRepo := repository.NewPaymentRepository(pool)
	payment := &models.Payment{
		TenantID: paid.ID,
		Month:    time.Now().Format(models.MonthLayout),
		Amount:   decimal.NewFromInt(1500000),
	}
	require.NoError(t, paymentRepo.Create(ctx, payment))
	_, err := paymentRepo.SetStatus(ctx, payment.ID, models.PaymentStatusVerified)
	require.NoError(t, err)

	t.Run("sweep", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cron/payment-reminders", nil)
		req.Header.Set("Authorization", "Bearer cron-secret")
		rec := httptest.NewRecorder()
		s.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody[reminderResult](t, rec)
		require.Equal(t, 1, result.Sent)
		require.Equal(t, 2, result.Skipped)
		require.Equal(t, 0, result.Failed)

		require.Len(t, mail.sent, 1)
		require.Equal(t, "g1@example.com", mail.sent[0].To)
	})

	t.Run("due date next month honors current month payment", func(t *testing.T) {
		// First of next month is always in a different month than today.
		nextMonth := time.Now().AddDate(0, 1, 0)
		due := time.Date(nextMonth.Year(), nextMonth.Month(), 1, 0, 0, 0, 0, time.UTC)

		room := &models.Room{RoomNumber: "G4", Price: decimal.NewFromInt(1500000)}
		require.NoError(t, roomRepo.Create(ctx, room))
		email := "g4@example.com"
		tenant := &models.Tenant{
			Name:      "Penghuni G4",
			Phone:     "0812000000",
			Email:     &email,
			RoomID:    &room.ID,
			StartDate: due.AddDate(0, -1, 0),
			DueDate:   due,
			Status:    models.TenantStatusActive,
		}
		require.NoError(t, tenantRepo.Create(ctx, tenant))

		crossPayment := &models.Payment{
			TenantID: tenant.ID,
			Month:    time.Now().Format(models.MonthLayout),
			Amount:   decimal.NewFromInt(1500000),
		}
		require.NoError(t, paymentRepo.Create(ctx, crossPayment))
		_, err := paymentRepo.SetStatus(ctx, crossPayment.ID, models.PaymentStatusVerified)
		require.NoError(t, err)

		withRoom, err := tenantRepo.GetWithRoom(ctx, tenant.ID)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/cron/payment-reminders", nil)
		require.True(t, s.monthAlreadyVerified(req, withRoom))
	})
}
