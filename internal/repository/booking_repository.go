package repository

import (
	"context"
	"fmt"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// BookingWithRoom is a booking joined with its room.
type BookingWithRoom struct {
	models.Booking
	RoomNumber string `json:"room_number"`
}

// BookingRepository handles booking database operations.
type BookingRepository struct {
	db database.PGXDB
}

// NewBookingRepository creates a new BookingRepository.
func NewBookingRepository(db database.PGXDB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, name, phone, room_id, booking_date, dp_amount,
	proof_url, id_card_url, status, created_at`

// Create adds a new booking in pending status.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.BookingStatusPending
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO booking (name, phone, room_id, booking_date, dp_amount, proof_url, id_card_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, booking.Name, booking.Phone, booking.RoomID, booking.BookingDate, booking.DPAmount,
		booking.ProofURL, booking.IDCardURL, booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetWithRoom retrieves a booking joined with its room.
func (r *BookingRepository) GetWithRoom(ctx context.Context, id string) (*BookingWithRoom, error) {
	return getBookingWithRoom(ctx, r.db, id)
}

// List retrieves all bookings with their rooms, newest first.
func (r *BookingRepository) List(ctx context.Context) ([]BookingWithRoom, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.name, b.phone, b.room_id, b.booking_date, b.dp_amount,
		       b.proof_url, b.id_card_url, b.status, b.created_at,
		       r.room_number
		FROM booking b
		JOIN rooms r ON b.room_id = r.id
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []BookingWithRoom
	for rows.Next() {
		var bw BookingWithRoom
		if err := rows.Scan(&bw.ID, &bw.Name, &bw.Phone, &bw.RoomID, &bw.BookingDate, &bw.DPAmount,
			&bw.ProofURL, &bw.IDCardURL, &bw.Status, &bw.CreatedAt, &bw.RoomNumber); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, bw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}
	return bookings, nil
}

// Cancel marks a booking canceled.
func (r *BookingRepository) Cancel(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE booking SET status = $2 WHERE id = $1
	`, id, models.BookingStatusCanceled)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return nil
}

// Confirm approves a booking atomically: create the tenant, mark the room
// occupied and mark the booking confirmed in one transaction, so a failure
// at any step applies nothing. The tenant's first due date is the booking
// date plus one month.
func (r *BookingRepository) Confirm(ctx context.Context, beginner database.TxBeginner, id string) (*models.Tenant, *BookingWithRoom, error) {
	tx, err := beginner.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin confirm transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := getBookingWithRoom(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	if booking.Status != models.BookingStatusPending {
		return nil, nil, fmt.Errorf("booking %s is %s, not pending", id, booking.Status)
	}

	tenant := &models.Tenant{
		Name:      booking.Name,
		Phone:     booking.Phone,
		RoomID:    &booking.RoomID,
		StartDate: booking.BookingDate,
		DueDate:   booking.BookingDate.AddDate(0, 1, 0),
		IDCardURL: booking.IDCardURL,
		Status:    models.TenantStatusActive,
	}
	if err := NewTenantRepository(tx).Create(ctx, tenant); err != nil {
		return nil, nil, err
	}

	if err := NewRoomRepository(tx).UpdateStatus(ctx, booking.RoomID, models.RoomStatusOccupied); err != nil {
		return nil, nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE booking SET status = $2 WHERE id = $1
	`, id, models.BookingStatusConfirmed); err != nil {
		return nil, nil, fmt.Errorf("failed to confirm booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit confirm transaction: %w", err)
	}

	booking.Status = models.BookingStatusConfirmed
	return tenant, booking, nil
}

func getBookingWithRoom(ctx context.Context, db database.PGXDB, id string) (*BookingWithRoom, error) {
	var bw BookingWithRoom
	err := db.QueryRow(ctx, `
		SELECT b.id, b.name, b.phone, b.room_id, b.booking_date, b.dp_amount,
		       b.proof_url, b.id_card_url, b.status, b.created_at,
		       r.room_number
		FROM booking b
		JOIN rooms r ON b.room_id = r.id
		WHERE b.id = $1
	`, id).Scan(&bw.ID, &bw.Name, &bw.Phone, &bw.RoomID, &bw.BookingDate, &bw.DPAmount,
		&bw.ProofURL, &bw.IDCardURL, &bw.Status, &bw.CreatedAt, &bw.RoomNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &bw, nil
}
