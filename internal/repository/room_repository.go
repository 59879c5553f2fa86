// Package repository contains the data-access layer. Each table gets one
// repository; all of them accept database.PGXDB so they run equally against
// the pool or a test transaction.
package repository

import (
	"context"
	"fmt"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// RoomRepository handles room database operations.
type RoomRepository struct {
	db database.PGXDB
}

// NewRoomRepository creates a new RoomRepository.
func NewRoomRepository(db database.PGXDB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create adds a new room.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}
	if room.Capacity == 0 {
		room.Capacity = 1
	}
	if room.Facilities == nil {
		room.Facilities = []string{}
	}
	if room.Photos == nil {
		room.Photos = []string{}
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO rooms (room_number, price, capacity, facilities, photos, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, room.RoomNumber, room.Price, room.Capacity, room.Facilities, room.Photos, room.Status,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by id.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByNumber retrieves a room by its room number (exact string match).
func (r *RoomRepository) GetByNumber(ctx context.Context, roomNumber string) (*models.Room, error) {
	return r.getOne(ctx, `WHERE room_number = $1`, roomNumber)
}

func (r *RoomRepository) getOne(ctx context.Context, where string, arg any) (*models.Room, error) {
	var room models.Room
	err := r.db.QueryRow(ctx, `
		SELECT id, room_number, price, capacity, facilities, photos, status, created_at, updated_at
		FROM rooms `+where,
		arg,
	).Scan(&room.ID, &room.RoomNumber, &room.Price, &room.Capacity,
		&room.Facilities, &room.Photos, &room.Status, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

// List retrieves all rooms ordered by room number.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_number, price, capacity, facilities, photos, status, created_at, updated_at
		FROM rooms
		ORDER BY room_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.ID, &room.RoomNumber, &room.Price, &room.Capacity,
			&room.Facilities, &room.Photos, &room.Status, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// Update modifies an existing room.
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	_, err := r.db.Exec(ctx, `
		UPDATE rooms SET
			room_number = $2,
			price = $3,
			capacity = $4,
			facilities = $5,
			photos = $6,
			status = $7,
			updated_at = NOW()
		WHERE id = $1
	`, room.ID, room.RoomNumber, room.Price, room.Capacity, room.Facilities, room.Photos, room.Status)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return nil
}

// UpdateStatus changes only the room status.
func (r *RoomRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE rooms SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	return nil
}

// Delete removes a room by id.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
