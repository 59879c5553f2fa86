package repository

import (
	"context"
	"fmt"

	"github.com/otomasikan/home72/internal/database"
	"github.com/otomasikan/home72/internal/models"
)

// ReportRepository handles maintenance report database operations.
type ReportRepository struct {
	db database.PGXDB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db database.PGXDB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create adds a new report in open status.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.Status == "" {
		report.Status = models.ReportStatusOpen
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO reports (tenant_id, message, photo_url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, report.TenantID, report.Message, report.PhotoURL, report.Status,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID retrieves a report by id.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var rep models.Report
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, message, photo_url, status, created_at, updated_at
		FROM reports WHERE id = $1
	`, id).Scan(&rep.ID, &rep.TenantID, &rep.Message, &rep.PhotoURL, &rep.Status, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &rep, nil
}

// ListByTenant retrieves a tenant's reports, newest first.
func (r *ReportRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.Report, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, message, photo_url, status, created_at, updated_at
		FROM reports
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		if err := rows.Scan(&rep.ID, &rep.TenantID, &rep.Message, &rep.PhotoURL,
			&rep.Status, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return reports, nil
}

// UpdateStatus advances a report's status. Only admin flows call this.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE reports SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}
	return nil
}
