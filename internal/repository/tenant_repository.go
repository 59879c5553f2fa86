package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// TenantWithRoom is a tenant joined with its room. The data-access layer
// produces this typed DTO so callers never re-shape raw join results.
type TenantWithRoom struct {
	models.Tenant
	RoomNumber string          `json:"room_number"`
	RoomPrice  decimal.Decimal `json:"room_price"`
}

// TenantRepository handles tenant database operations.
type TenantRepository struct {
	db database.PGXDB
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db database.PGXDB) *TenantRepository {
	return &TenantRepository{db: db}
}

const tenantColumns = `id, name, phone, email, room_id, start_date, due_date,
	contract_url, id_card_url, status, telegram_chat_id, created_at, updated_at`

// Create adds a new tenant.
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	if tenant.Status == "" {
		tenant.Status = models.TenantStatusActive
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO tenants (name, phone, email, room_id, start_date, due_date, contract_url, id_card_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, tenant.Name, tenant.Phone, tenant.Email, tenant.RoomID, tenant.StartDate, tenant.DueDate,
		tenant.ContractURL, tenant.IDCardURL, tenant.Status,
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by id.
func (r *TenantRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	var t models.Tenant
	err := r.db.QueryRow(ctx, `
		SELECT `+tenantColumns+` FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Phone, &t.Email, &t.RoomID, &t.StartDate, &t.DueDate,
		&t.ContractURL, &t.IDCardURL, &t.Status, &t.TelegramChatID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &t, nil
}

// GetWithRoom retrieves a tenant joined with its room.
func (r *TenantRepository) GetWithRoom(ctx context.Context, id string) (*TenantWithRoom, error) {
	row := r.db.QueryRow(ctx, `
		SELECT t.id, t.name, t.phone, t.email, t.room_id, t.start_date, t.due_date,
		       t.contract_url, t.id_card_url, t.status, t.telegram_chat_id, t.created_at, t.updated_at,
		       r.room_number, r.price
		FROM tenants t
		JOIN rooms r ON t.room_id = r.id
		WHERE t.id = $1
	`, id)
	return scanTenantWithRoom(row, "failed to get tenant with room")
}

// FindActiveByRoomNumber looks up the active tenant occupying the room with
// the given number. Exactly one active tenant per room is assumed; the query
// picks the most recent if data drifts.
func (r *TenantRepository) FindActiveByRoomNumber(ctx context.Context, roomNumber string) (*TenantWithRoom, error) {
	row := r.db.QueryRow(ctx, `
		SELECT t.id, t.name, t.phone, t.email, t.room_id, t.start_date, t.due_date,
		       t.contract_url, t.id_card_url, t.status, t.telegram_chat_id, t.created_at, t.updated_at,
		       r.room_number, r.price
		FROM tenants t
		JOIN rooms r ON t.room_id = r.id
		WHERE r.room_number = $1 AND t.status = $2
		ORDER BY t.created_at DESC
		LIMIT 1
	`, roomNumber, models.TenantStatusActive)
	return scanTenantWithRoom(row, "failed to find tenant by room number")
}

// SetTelegramChat writes the chat id back onto the tenant record, creating
// the bidirectional linkage with the bot session.
func (r *TenantRepository) SetTelegramChat(ctx context.Context, id string, chatID int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE tenants SET telegram_chat_id = $2, updated_at = NOW() WHERE id = $1
	`, id, chatID)
	if err != nil {
		return fmt.Errorf("failed to set telegram chat: %w", err)
	}
	return nil
}

// Update modifies an existing tenant.
func (r *TenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		UPDATE tenants SET
			name = $2,
			phone = $3,
			email = $4,
			room_id = $5,
			start_date = $6,
			due_date = $7,
			contract_url = $8,
			id_card_url = $9,
			status = $10,
			updated_at = NOW()
		WHERE id = $1
	`, tenant.ID, tenant.Name, tenant.Phone, tenant.Email, tenant.RoomID, tenant.StartDate,
		tenant.DueDate, tenant.ContractURL, tenant.IDCardURL, tenant.Status)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return nil
}

// List retrieves all tenants ordered by creation time descending.
func (r *TenantRepository) List(ctx context.Context) ([]models.Tenant, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Phone, &t.Email, &t.RoomID, &t.StartDate, &t.DueDate,
			&t.ContractURL, &t.IDCardURL, &t.Status, &t.TelegramChatID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}
	return tenants, nil
}

// ListActiveWithEmail retrieves active tenants that have an email address,
// joined with their rooms. Used by the payment reminder sweep.
func (r *TenantRepository) ListActiveWithEmail(ctx context.Context) ([]TenantWithRoom, error) {
	rows, err := r.db.Query(ctx, `
		SELECT t.id, t.name, t.phone, t.email, t.room_id, t.start_date, t.due_date,
		       t.contract_url, t.id_card_url, t.status, t.telegram_chat_id, t.created_at, t.updated_at,
		       r.room_number, r.price
		FROM tenants t
		JOIN rooms r ON t.room_id = r.id
		WHERE t.status = $1 AND t.email IS NOT NULL
		ORDER BY t.due_date
	`, models.TenantStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants for reminder: %w", err)
	}
	defer rows.Close()

	var tenants []TenantWithRoom
	for rows.Next() {
		var tw TenantWithRoom
		if err := rows.Scan(&tw.ID, &tw.Name, &tw.Phone, &tw.Email, &tw.RoomID, &tw.StartDate, &tw.DueDate,
			&tw.ContractURL, &tw.IDCardURL, &tw.Status, &tw.TelegramChatID, &tw.CreatedAt, &tw.UpdatedAt,
			&tw.RoomNumber, &tw.RoomPrice); err != nil {
			return nil, fmt.Errorf("failed to scan tenant with room: %w", err)
		}
		tenants = append(tenants, tw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}
	return tenants, nil
}

func scanTenantWithRoom(row interface{ Scan(dest ...any) error }, msg string) (*TenantWithRoom, error) {
	var tw TenantWithRoom
	err := row.Scan(&tw.ID, &tw.Name, &tw.Phone, &tw.Email, &tw.RoomID, &tw.StartDate, &tw.DueDate,
		&tw.ContractURL, &tw.IDCardURL, &tw.Status, &tw.TelegramChatID, &tw.CreatedAt, &tw.UpdatedAt,
		&tw.RoomNumber, &tw.RoomPrice)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return &tw, nil
}
