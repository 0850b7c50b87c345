package port

import (
	"context"

	"github.com/google/uuid"

	"patrimon/internal/domain"
)

// UserRepository defines the contract for admin account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// NetworkRepository defines the contract for audit network persistence.
type NetworkRepository interface {
	Create(ctx context.Context, network *domain.Network) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Network, error)
	GetByName(ctx context.Context, name string) (*domain.Network, error)
	List(ctx context.Context, offset, limit int) ([]domain.Network, int, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.Network, error)
	Delete(ctx context.Context, id, adminID uuid.UUID) error
}

// MasterFileRepository defines the contract for master spreadsheet metadata.
// Query methods include ownerID to keep each admin's files isolated.
type MasterFileRepository interface {
	Create(ctx context.Context, file *domain.MasterFile) error
	GetByID(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.MasterFile, int, error)
	UpdateStatus(ctx context.Context, ownerID, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error
}

// AuditReportRepository defines the contract for generated report metadata.
type AuditReportRepository interface {
	Create(ctx context.Context, report *domain.AuditReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditReport, error)
	ListByNetwork(ctx context.Context, networkID uuid.UUID, offset, limit int) ([]domain.AuditReport, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
