package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

func setupSessionTest(t *testing.T) (*SessionRepository, context.Context) {
	t.Helper()

	pool := database.TestDB(t)
	ctx := context.Background()

	err := database.RunMigrations(ctx, pool)
	require.NoError(t, err)
	database.CleanupTables(t, pool)

	return NewSessionRepository(pool), ctx
}

func TestSessionRepository_GetOrCreate(t *testing.T) {
	sessionRepo, ctx := setupSessionTest(t)

	t.Run("creates new session in awaiting_room", func(t *testing.T) {
		session, err := sessionRepo.GetOrCreate(ctx, 100)
		require.NoError(t, err)
		require.Equal(t, int64(100), session.ChatID)
		require.Equal(t, models.SessionStateAwaitingRoom, session.State)
		require.False(t, session.Linked())
	})

	t.Run("returns existing session", func(t *testing.T) {
		err := sessionRepo.SetState(ctx, 100, models.SessionStateAwaitingComplaint)
		require.NoError(t, err)

		session, err := sessionRepo.GetOrCreate(ctx, 100)
		require.NoError(t, err)
		require.Equal(t, models.SessionStateAwaitingComplaint, session.State)
	})
}

func TestSessionRepository_Link(t *testing.T) {
	sessionRepo, ctx := setupSessionTest(t)

	pool := database.TestDB(t)
	room := createTestRoom(t, ctx, NewRoomRepository(pool), "A1")
	tenant := createTestTenant(t, ctx, NewTenantRepository(pool), &room.ID, "Budi")

	_, err := sessionRepo.GetOrCreate(ctx, 200)
	require.NoError(t, err)

	err = sessionRepo.Link(ctx, 200, tenant.ID, "A1")
	require.NoError(t, err)

	session, err := sessionRepo.GetByChatID(ctx, 200)
	require.NoError(t, err)
	require.True(t, session.Linked())
	require.Equal(t, models.SessionStateIdle, session.State)
	require.Equal(t, tenant.ID, *session.TenantID)
	require.Equal(t, "A1", *session.RoomNumber)
}

func TestSessionRepository_SetTempData(t *testing.T) {
	sessionRepo, ctx := setupSessionTest(t)

	_, err := sessionRepo.GetOrCreate(ctx, 300)
	require.NoError(t, err)

	err = sessionRepo.SetTempData(ctx, 300, map[string]string{"month": "2026-09"})
	require.NoError(t, err)

	session, err := sessionRepo.GetByChatID(ctx, 300)
	require.NoError(t, err)
	require.Equal(t, "2026-09", session.TempData["month"])
}
