package bot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/config"
	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
	"github.com/otomasikan/home72/internal/repository"
	"github.com/otomasikan/home72/internal/storage"
)

// TestDB is a convenience wrapper around database.TestDB for bot tests.
func TestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	pool := database.TestDB(t)

	ctx := context.Background()
	if err := database.RunMigrations(ctx, pool); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	database.CleanupTables(t, pool)

	t.Cleanup(func() {
		database.CleanupTables(t, pool)
	})

	return pool
}

// fakeStore records uploads in memory and hands back deterministic URLs.
type fakeStore struct {
	mu      sync.Mutex
	uploads []fakeUpload

	// UploadError simulates storage failures.
	UploadError error
}

type fakeUpload struct {
	Bucket string
	Ext    string
	Size   int
}

var _ storage.ObjectStore = (*fakeStore)(nil)

func (s *fakeStore) Upload(_ context.Context, bucket, ext string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadError != nil {
		return "", s.UploadError
	}
	s.uploads = append(s.uploads, fakeUpload{Bucket: bucket, Ext: ext, Size: len(data)})
	return fmt.Sprintf("https://storage.test/%s/object-%d%s", bucket, len(s.uploads), ext), nil
}

// setupTestBot creates a Bot instance for testing with database.
func setupTestBot(t *testing.T, pool *pgxpool.Pool) (*Bot, *fakeStore) {
	t.Helper()

	cfg := &config.Config{
		TelegramBotToken:    "test-token",
		TelegramAdminChatID: 999000,
		DatabaseURL:         "test-url",
		CronSecret:          "test-secret",
	}

	store := &fakeStore{}
	b := &Bot{
		cfg:         cfg,
		store:       store,
		sessionRepo: repository.NewSessionRepository(pool),
		tenantRepo:  repository.NewTenantRepository(pool),
		paymentRepo: repository.NewPaymentRepository(pool),
		reportRepo:  repository.NewReportRepository(pool),
		chatLocks:   make(map[int64]*sync.Mutex),
	}

	return b, store
}

// seedTenant creates a room with an active tenant for bot tests.
func seedTenant(t *testing.T, ctx context.Context, pool *pgxpool.Pool, roomNumber, name string) *models.Tenant {
	t.Helper()

	roomRepo := repository.NewRoomRepository(pool)
	room := &models.Room{RoomNumber: roomNumber, Price: decimal.NewFromInt(1500000)}
	if err := roomRepo.Create(ctx, room); err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	tenantRepo := repository.NewTenantRepository(pool)
	tenant := &models.Tenant{
		Name:      name,
		Phone:     "08123456789",
		RoomID:    &room.ID,
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Status:    models.TenantStatusActive,
	}
	if err := tenantRepo.Create(ctx, tenant); err != nil {
		t.Fatalf("failed to create tenant: %v", err)
	}
	return tenant
}
