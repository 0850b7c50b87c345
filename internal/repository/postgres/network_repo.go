package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"patrimon/internal/domain"
	"patrimon/internal/port"
)

type networkRepo struct {
	db *sqlx.DB
}

// NewNetworkRepo creates a new PostgreSQL-backed NetworkRepository.
func NewNetworkRepo(db *sqlx.DB) port.NetworkRepository {
	return &networkRepo{db: db}
}

func (r *networkRepo) Create(ctx context.Context, network *domain.Network) error {
	network.ID = uuid.New()
	network.CreatedAt = time.Now().UTC()

	query := `INSERT INTO networks (id, name, password_hash, city, admin_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		network.ID, network.Name, network.PasswordHash, network.City,
		network.AdminID, network.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateNetwork
		}
		return fmt.Errorf("networkRepo.Create: %w", err)
	}
	return nil
}

func (r *networkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Network, error) {
	var network domain.Network
	err := r.db.GetContext(ctx, &network, "SELECT * FROM networks WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("networkRepo.GetByID: %w", err)
	}
	return &network, nil
}

func (r *networkRepo) GetByName(ctx context.Context, name string) (*domain.Network, error) {
	var network domain.Network
	err := r.db.GetContext(ctx, &network, "SELECT * FROM networks WHERE name = $1", name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("networkRepo.GetByName: %w", err)
	}
	return &network, nil
}

func (r *networkRepo) List(ctx context.Context, offset, limit int) ([]domain.Network, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM networks")
	if err != nil {
		return nil, 0, fmt.Errorf("networkRepo.List count: %w", err)
	}

	var networks []domain.Network
	err = r.db.SelectContext(ctx, &networks,
		"SELECT * FROM networks ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("networkRepo.List: %w", err)
	}
	return networks, total, nil
}

func (r *networkRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.Network, error) {
	var networks []domain.Network
	err := r.db.SelectContext(ctx, &networks,
		"SELECT * FROM networks WHERE admin_id = $1 ORDER BY created_at DESC", adminID)
	if err != nil {
		return nil, fmt.Errorf("networkRepo.ListByAdmin: %w", err)
	}
	return networks, nil
}

func (r *networkRepo) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM networks WHERE id = $1 AND admin_id = $2", id, adminID)
	if err != nil {
		return fmt.Errorf("networkRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
