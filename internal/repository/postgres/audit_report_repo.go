package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"patrimon/internal/domain"
	"patrimon/internal/port"
)

type auditReportRepo struct {
	db *sqlx.DB
}

// NewAuditReportRepo creates a new PostgreSQL-backed AuditReportRepository.
func NewAuditReportRepo(db *sqlx.DB) port.AuditReportRepository {
	return &auditReportRepo{db: db}
}

func (r *auditReportRepo) Create(ctx context.Context, report *domain.AuditReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now().UTC()

	query := `INSERT INTO audit_reports (id, network_id, file_name, s3_bucket, s3_key,
		raw_scan_key, room_id, room_name, analyst_name, format, incomplete, file_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.NetworkID, report.FileName, report.S3Bucket, report.S3Key,
		report.RawScanKey, report.RoomID, report.RoomName, report.AnalystName,
		report.Format, report.Incomplete, report.FileSize, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("auditReportRepo.Create: %w", err)
	}
	return nil
}

func (r *auditReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditReport, error) {
	var report domain.AuditReport
	err := r.db.GetContext(ctx, &report, "SELECT * FROM audit_reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("auditReportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *auditReportRepo) ListByNetwork(ctx context.Context, networkID uuid.UUID, offset, limit int) ([]domain.AuditReport, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM audit_reports WHERE network_id = $1", networkID)
	if err != nil {
		return nil, 0, fmt.Errorf("auditReportRepo.ListByNetwork count: %w", err)
	}

	var reports []domain.AuditReport
	err = r.db.SelectContext(ctx, &reports,
		`SELECT * FROM audit_reports WHERE network_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		networkID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("auditReportRepo.ListByNetwork: %w", err)
	}
	return reports, total, nil
}

func (r *auditReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM audit_reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("auditReportRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
