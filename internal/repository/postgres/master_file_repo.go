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

type masterFileRepo struct {
	db *sqlx.DB
}

// NewMasterFileRepo creates a new PostgreSQL-backed MasterFileRepository.
func NewMasterFileRepo(db *sqlx.DB) port.MasterFileRepository {
	return &masterFileRepo{db: db}
}

func (r *masterFileRepo) Create(ctx context.Context, file *domain.MasterFile) error {
	if file.ID == uuid.Nil {
		file.ID = uuid.New()
	}
	now := time.Now().UTC()
	file.CreatedAt = now
	file.UpdatedAt = now

	query := `INSERT INTO master_files (id, owner_id, file_name, original_name, file_size,
		city, s3_bucket, s3_key, fingerprint, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID, file.OwnerID, file.FileName, file.OriginalName, file.FileSize,
		file.City, file.S3Bucket, file.S3Key, file.Fingerprint, file.Status,
		file.CreatedAt, file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("masterFileRepo.Create: %w", err)
	}
	return nil
}

func (r *masterFileRepo) GetByID(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, error) {
	var file domain.MasterFile
	err := r.db.GetContext(ctx, &file,
		"SELECT * FROM master_files WHERE id = $1 AND owner_id = $2 AND status != $3",
		fileID, ownerID, domain.FileStatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("masterFileRepo.GetByID: %w", err)
	}
	return &file, nil
}

func (r *masterFileRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.MasterFile, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM master_files WHERE owner_id = $1 AND status != $2",
		ownerID, domain.FileStatusDeleted)
	if err != nil {
		return nil, 0, fmt.Errorf("masterFileRepo.ListByOwner count: %w", err)
	}

	var files []domain.MasterFile
	err = r.db.SelectContext(ctx, &files,
		`SELECT * FROM master_files WHERE owner_id = $1 AND status != $2
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		ownerID, domain.FileStatusDeleted, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("masterFileRepo.ListByOwner: %w", err)
	}
	return files, total, nil
}

func (r *masterFileRepo) UpdateStatus(ctx context.Context, ownerID, fileID uuid.UUID, status domain.FileStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE master_files SET status = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3",
		status, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("masterFileRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *masterFileRepo) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	// Soft delete keeps the metadata row for past audit reports.
	result, err := r.db.ExecContext(ctx,
		"UPDATE master_files SET status = $1, updated_at = NOW() WHERE id = $2 AND owner_id = $3",
		domain.FileStatusDeleted, fileID, ownerID)
	if err != nil {
		return fmt.Errorf("masterFileRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
