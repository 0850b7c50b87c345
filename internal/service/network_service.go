package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"patrimon/internal/domain"
	"patrimon/internal/port"
)

// CreateNetworkInput is the DTO for network creation.
type CreateNetworkInput struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=4"`
	City     string `json:"city"`
}

// JoinNetworkInput is the DTO for operator join requests.
type JoinNetworkInput struct {
	NetworkID uuid.UUID `json:"network_id" binding:"required"`
	Password  string    `json:"password" binding:"required"`
}

// NetworkService manages audit networks and operator sessions.
type NetworkService interface {
	Create(ctx context.Context, adminID uuid.UUID, input CreateNetworkInput) (*domain.Network, error)
	List(ctx context.Context, offset, limit int) ([]domain.Network, int, error)
	ListMine(ctx context.Context, adminID uuid.UUID) ([]domain.Network, error)
	Join(ctx context.Context, input JoinNetworkInput) (*domain.Network, *TokenPair, error)
	Delete(ctx context.Context, adminID, networkID uuid.UUID) error
}

type networkService struct {
	networkRepo port.NetworkRepository
	userRepo    port.UserRepository
	auth        AuthService
}

// NewNetworkService creates a new NetworkService implementation.
func NewNetworkService(
	networkRepo port.NetworkRepository,
	userRepo port.UserRepository,
	auth AuthService,
) NetworkService {
	return &networkService{
		networkRepo: networkRepo,
		userRepo:    userRepo,
		auth:        auth,
	}
}

func (s *networkService) Create(ctx context.Context, adminID uuid.UUID, input CreateNetworkInput) (*domain.Network, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("network.Create hash: %w", err)
	}

	city := input.City
	if city == "" {
		// Default to the admin's registered city.
		admin, err := s.userRepo.GetByID(ctx, adminID)
		if err == nil {
			city = admin.City
		}
	}

	network := &domain.Network{
		Name:         input.Name,
		PasswordHash: string(hash),
		City:         city,
		AdminID:      adminID,
	}
	if err := s.networkRepo.Create(ctx, network); err != nil {
		return nil, err
	}
	return network, nil
}

func (s *networkService) List(ctx context.Context, offset, limit int) ([]domain.Network, int, error) {
	return s.networkRepo.List(ctx, offset, limit)
}

func (s *networkService) ListMine(ctx context.Context, adminID uuid.UUID) ([]domain.Network, error) {
	return s.networkRepo.ListByAdmin(ctx, adminID)
}

func (s *networkService) Join(ctx context.Context, input JoinNetworkInput) (*domain.Network, *TokenPair, error) {
	network, err := s.networkRepo.GetByID(ctx, input.NetworkID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("network.Join: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(network.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.auth.NetworkTokenPair(network)
	if err != nil {
		return nil, nil, err
	}
	return network, pair, nil
}

func (s *networkService) Delete(ctx context.Context, adminID, networkID uuid.UUID) error {
	return s.networkRepo.Delete(ctx, networkID, adminID)
}
