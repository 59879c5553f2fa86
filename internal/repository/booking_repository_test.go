package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

func setupBookingTest(t *testing.T) (*BookingRepository, *RoomRepository, context.Context) {
	t.Helper()

	pool := database.TestDB(t)
	ctx := context.Background()

	err := database.RunMigrations(ctx, pool)
	require.NoError(t, err)
	database.CleanupTables(t, pool)

	return NewBookingRepository(pool), NewRoomRepository(pool), ctx
}

func createTestBooking(t *testing.T, ctx context.Context, bookingRepo *BookingRepository, roomID string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		Name:        "Calon Penghuni",
		Phone:       "08987654321",
		RoomID:      roomID,
		BookingDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		DPAmount:    decimal.NewFromInt(500000),
	}
	err := bookingRepo.Create(ctx, booking)
	require.NoError(t, err)
	return booking
}

func TestBookingRepository_Create(t *testing.T) {
	bookingRepo, roomRepo, ctx := setupBookingTest(t)

	room := createTestRoom(t, ctx, roomRepo, "A1")
	booking := createTestBooking(t, ctx, bookingRepo, room.ID)

	require.NotEmpty(t, booking.ID)
	require.Equal(t, models.BookingStatusPending, booking.Status)

	got, err := bookingRepo.GetWithRoom(ctx, booking.ID)
	require.NoError(t, err)
	require.Equal(t, "A1", got.RoomNumber)
	require.True(t, got.DPAmount.Equal(decimal.NewFromInt(500000)))
}

func TestBookingRepository_List(t *testing.T) {
	bookingRepo, roomRepo, ctx := setupBookingTest(t)

	room := createTestRoom(t, ctx, roomRepo, "B1")
	createTestBooking(t, ctx, bookingRepo, room.ID)
	createTestBooking(t, ctx, bookingRepo, room.ID)

	bookings, err := bookingRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	require.Equal(t, "B1", bookings[0].RoomNumber)
}

func TestBookingRepository_Cancel(t *testing.T) {
	bookingRepo, roomRepo, ctx := setupBookingTest(t)

	room := createTestRoom(t, ctx, roomRepo, "C1")
	booking := createTestBooking(t, ctx, bookingRepo, room.ID)

	err := bookingRepo.Cancel(ctx, booking.ID)
	require.NoError(t, err)

	got, err := bookingRepo.GetWithRoom(ctx, booking.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusCanceled, got.Status)
}

func TestBookingRepository_Confirm(t *testing.T) {
	pool := database.TestDB(t)
	ctx := context.Background()

	err := database.RunMigrations(ctx, pool)
	require.NoError(t, err)
	database.CleanupTables(t, pool)

	bookingRepo := NewBookingRepository(pool)
	roomRepo := NewRoomRepository(pool)
	tenantRepo := NewTenantRepository(pool)

	room := createTestRoom(t, ctx, roomRepo, "D1")
	booking := createTestBooking(t, ctx, bookingRepo, room.ID)

	t.Run("creates tenant, occupies room, confirms booking", func(t *testing.T) {
		tenant, confirmed, err := bookingRepo.Confirm(ctx, pool, booking.ID)
		require.NoError(t, err)

		require.Equal(t, "Calon Penghuni", tenant.Name)
		require.Equal(t, models.TenantStatusActive, tenant.Status)
		require.Equal(t, booking.BookingDate, tenant.StartDate.UTC())
		require.Equal(t, booking.BookingDate.AddDate(0, 1, 0), tenant.DueDate.UTC())
		require.Equal(t, "D1", confirmed.RoomNumber)

		gotRoom, err := roomRepo.GetByID(ctx, room.ID)
		require.NoError(t, err)
		require.Equal(t, models.RoomStatusOccupied, gotRoom.Status)

		gotTenant, err := tenantRepo.FindActiveByRoomNumber(ctx, "D1")
		require.NoError(t, err)
		require.Equal(t, tenant.ID, gotTenant.ID)
	})

	t.Run("rejects double confirm", func(t *testing.T) {
		_, _, err := bookingRepo.Confirm(ctx, pool, booking.ID)
		require.Error(t, err)
		require.Contains(t, err.Error(), "not pending")
	})

	t.Run("unknown booking", func(t *testing.T) {
		_, _, err := bookingRepo.Confirm(ctx, pool, "00000000-0000-0000-0000-000000000000")
		require.Error(t, err)
	})
}
