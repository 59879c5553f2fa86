package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// SessionRepository handles per-chat Telegram session state.
type SessionRepository struct {
	db database.PGXDB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db database.PGXDB) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetOrCreate loads the session for a chat, creating a fresh one in the
// awaiting_room state when the chat is new.
func (r *SessionRepository) GetOrCreate(ctx context.Context, chatID int64) (*models.Session, error) {
	session, err := r.GetByChatID(ctx, chatID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session = &models.Session{
		ChatID:   chatID,
		State:    models.SessionStateAwaitingRoom,
		TempData: map[string]string{},
	}
	err = r.db.QueryRow(ctx, `
		INSERT INTO telegram_sessions (chat_id, state, temp_data)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, session.ChatID, session.State, session.TempData).Scan(&session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetByChatID retrieves the session for a chat.
func (r *SessionRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx, `
		SELECT chat_id, state, tenant_id, room_number, temp_data, created_at, updated_at
		FROM telegram_sessions
		WHERE chat_id = $1
	`, chatID).Scan(&s.ChatID, &s.State, &s.TenantID, &s.RoomNumber, &s.TempData, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.TempData == nil {
		s.TempData = map[string]string{}
	}
	return &s, nil
}

// SetState moves the chat to a new conversational state.
func (r *SessionRepository) SetState(ctx context.Context, chatID int64, state string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE telegram_sessions SET state = $2, updated_at = NOW() WHERE chat_id = $1
	`, chatID, state)
	if err != nil {
		return fmt.Errorf("failed to set session state: %w", err)
	}
	return nil
}

// Link attaches a tenant to the chat and moves it to the idle state.
func (r *SessionRepository) Link(ctx context.Context, chatID int64, tenantID, roomNumber string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE telegram_sessions
		SET tenant_id = $2, room_number = $3, state = $4, updated_at = NOW()
		WHERE chat_id = $1
	`, chatID, tenantID, roomNumber, models.SessionStateIdle)
	if err != nil {
		return fmt.Errorf("failed to link session: %w", err)
	}
	return nil
}

// SetTempData replaces the scratch data carried between states.
func (r *SessionRepository) SetTempData(ctx context.Context, chatID int64, data map[string]string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE telegram_sessions SET temp_data = $2, updated_at = NOW() WHERE chat_id = $1
	`, chatID, data)
	if err != nil {
		return fmt.Errorf("failed to set session temp data: %w", err)
	}
	return nil
}
