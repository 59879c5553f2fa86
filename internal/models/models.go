// Package models defines the domain entities for the kosan management system.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Room statuses.
const (
	RoomStatusAvailable   = "available"
	RoomStatusOccupied    = "occupied"
	RoomStatusMaintenance = "maintenance"
)

// Tenant statuses.
const (
	TenantStatusActive   = "active"
	TenantStatusInactive = "inactive"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusVerified = "verified"
	PaymentStatusRejected = "rejected"
)

// Payment methods.
const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodQRIS     = "qris"
	PaymentMethodCash     = "cash"
)

// Report statuses.
const (
	ReportStatusOpen       = "open"
	ReportStatusInProgress = "in_progress"
	ReportStatusDone       = "done"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
)

// Telegram session states. The state fully determines which handler
// consumes the next inbound message from the chat.
const (
	SessionStateAwaitingRoom         = "awaiting_room"
	SessionStateAwaitingPaymentPhoto = "awaiting_payment_photo"
	SessionStateAwaitingComplaint    = "awaiting_complaint"
	SessionStateIdle                 = "idle"
)

// MonthLayout is the period format stored on payments (e.g. "2026-09").
const MonthLayout = "2006-01"

// Room is a rentable unit.
type Room struct {
	ID         string          `json:"id"`
	RoomNumber string          `json:"room_number"`
	Price      decimal.Decimal `json:"price"`
	Capacity   int             `json:"capacity"`
	Facilities []string        `json:"facilities"`
	Photos     []string        `json:"photos"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Tenant is a person renting a room, with a due-date cycle for rent.
type Tenant struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	RoomID         *string   `json:"room_id,omitempty"`
	StartDate      time.Time `json:"start_date"`
	DueDate        time.Time `json:"due_date"`
	ContractURL    *string   `json:"contract_url,omitempty"`
	IDCardURL      *string   `json:"id_card_url,omitempty"`
	Status         string    `json:"status"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payment is one rent payment attempt for a tenant and month. Multiple rows
// may exist for the same tenant/month; admin verification decides which
// counts.
type Payment struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Month         string          `json:"month"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	ProofURL      *string         `json:"proof_url,omitempty"`
	QRISURL       *string         `json:"qris_url,omitempty"`
	QRISExpiredAt *time.Time      `json:"qris_expired_at,omitempty"`
	PayDate       *time.Time      `json:"pay_date,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Report is a maintenance complaint filed by a tenant.
type Report struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Message   string    `json:"message"`
	PhotoURL  *string   `json:"photo_url,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking is a prospective tenant's reservation request pending admin
// approval.
type Booking struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	RoomID      string          `json:"room_id"`
	BookingDate time.Time       `json:"booking_date"`
	DPAmount    decimal.Decimal `json:"dp_amount"`
	ProofURL    *string         `json:"proof_url,omitempty"`
	IDCardURL   *string         `json:"id_card_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Session is the per-chat conversational state linking a Telegram user to a
// tenant record.
type Session struct {
	ChatID     int64
	State      string
	TenantID   *string
	RoomNumber *string
	TempData   map[string]string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Linked reports whether the session has a tenant attached.
func (s *Session) Linked() bool {
	return s.TenantID != nil && *s.TenantID != ""
}
