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

// Report tests run inside a rolled-back transaction, so they need no table
// cleanup and cannot interfere with other tests.
func setupReportTest(t *testing.T) (*ReportRepository, *models.Tenant, context.Context) {
	t.Helper()

	tx := database.TestTx(t)
	ctx := context.Background()

	room := &models.Room{RoomNumber: "TX-R1", Price: decimal.NewFromInt(1500000)}
	require.NoError(t, NewRoomRepository(tx).Create(ctx, room))

	tenant := &models.Tenant{
		Name:      "Penghuni Komplain",
		Phone:     "08123456789",
		RoomID:    &room.ID,
		StartDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.TenantStatusActive,
	}
	require.NoError(t, NewTenantRepository(tx).Create(ctx, tenant))

	return NewReportRepository(tx), tenant, ctx
}

func TestReportRepository_Create(t *testing.T) {
	reportRepo, tenant, ctx := setupReportTest(t)

	t.Run("defaults to open", func(t *testing.T) {
		report := &models.Report{
			TenantID: tenant.ID,
			Message:  "AC tidak dingin",
		}
		err := reportRepo.Create(ctx, report)
		require.NoError(t, err)
		require.NotEmpty(t, report.ID)
		require.Equal(t, models.ReportStatusOpen, report.Status)
	})

	t.Run("stores photo url", func(t *testing.T) {
		photo := "https://storage.test/report-photos/x.jpg"
		report := &models.Report{
			TenantID: tenant.ID,
			Message:  "Keran bocor",
			PhotoURL: &photo,
		}
		err := reportRepo.Create(ctx, report)
		require.NoError(t, err)

		got, err := reportRepo.GetByID(ctx, report.ID)
		require.NoError(t, err)
		require.NotNil(t, got.PhotoURL)
		require.Equal(t, photo, *got.PhotoURL)
	})
}

func TestReportRepository_ListByTenant(t *testing.T) {
	reportRepo, tenant, ctx := setupReportTest(t)

	for _, msg := range []string{"pertama", "kedua"} {
		require.NoError(t, reportRepo.Create(ctx, &models.Report{
			TenantID: tenant.ID,
			Message:  msg,
		}))
	}

	reports, err := reportRepo.ListByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
}

func TestReportRepository_UpdateStatus(t *testing.T) {
	reportRepo, tenant, ctx := setupReportTest(t)

	report := &models.Report{TenantID: tenant.ID, Message: "Lampu mati"}
	require.NoError(t, reportRepo.Create(ctx, report))

	require.NoError(t, reportRepo.UpdateStatus(ctx, report.ID, models.ReportStatusInProgress))

	got, err := reportRepo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusInProgress, got.Status)

	require.NoError(t, reportRepo.UpdateStatus(ctx, report.ID, models.ReportStatusDone))
	got, err = reportRepo.GetByID(ctx, report.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusDone, got.Status)
}
