package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// PaymentRepository handles payment database operations.
type PaymentRepository struct {
	db database.PGXDB
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(db database.PGXDB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, tenant_id, month, amount, status, payment_method,
	proof_url, qris_url, qris_expired_at, pay_date, verified_at, created_at`

// Create adds a new payment. Payments are born pending; only admin
// verification moves them on.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	if payment.PaymentMethod == "" {
		payment.PaymentMethod = models.PaymentMethodTransfer
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO payments (tenant_id, month, amount, status, payment_method, proof_url, qris_url, qris_expired_at, pay_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, payment.TenantID, payment.Month, payment.Amount, payment.Status, payment.PaymentMethod,
		payment.ProofURL, payment.QRISURL, payment.QRISExpiredAt, payment.PayDate,
	).Scan(&payment.ID, &payment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment by id.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	return scanPayment(row, "failed to get payment")
}

// ListByTenant retrieves payments for a tenant, newest first. A limit of 0
// returns all rows.
func (r *PaymentRepository) ListByTenant(ctx context.Context, tenantID string, limit int) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tenant_id = $1 ORDER BY created_at DESC`
	args := []any{tenantID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Month, &p.Amount, &p.Status, &p.PaymentMethod,
			&p.ProofURL, &p.QRISURL, &p.QRISExpiredAt, &p.PayDate, &p.VerifiedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// LastVerified retrieves the tenant's most recently verified payment,
// ordered by verification time.
func (r *PaymentRepository) LastVerified(ctx context.Context, tenantID string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE tenant_id = $1 AND status = $2
		ORDER BY verified_at DESC
		LIMIT 1
	`, tenantID, models.PaymentStatusVerified)
	return scanPayment(row, "failed to get last verified payment")
}

// GetByTenantAndMonth retrieves the most recent payment for a tenant and
// month. Duplicates are possible; the newest row wins here.
func (r *PaymentRepository) GetByTenantAndMonth(ctx context.Context, tenantID, month string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE tenant_id = $1 AND month = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, tenantID, month)
	return scanPayment(row, "failed to get payment by month")
}

// SetStatus updates a payment's status. Moving to verified stamps
// verified_at; other transitions leave it untouched.
func (r *PaymentRepository) SetStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE payments SET
			status = $2,
			verified_at = CASE WHEN $2 = 'verified' THEN NOW() ELSE verified_at END
		WHERE id = $1
		RETURNING `+paymentColumns,
		id, status)
	return scanPayment(row, "failed to update payment status")
}

// SetQRIS stores the generated QR data URL and its expiry on a payment.
func (r *PaymentRepository) SetQRIS(ctx context.Context, id, qrisURL string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE payments SET qris_url = $2, qris_expired_at = $3 WHERE id = $1
	`, id, qrisURL, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store qris code: %w", err)
	}
	return nil
}

func scanPayment(row interface{ Scan(dest ...any) error }, msg string) (*models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.TenantID, &p.Month, &p.Amount, &p.Status, &p.PaymentMethod,
		&p.ProofURL, &p.QRISURL, &p.QRISExpiredAt, &p.PayDate, &p.VerifiedAt, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	return &p, nil
}
