package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patrimon/internal/domain"
)

// MockNetworkRepo is a mock implementation of port.NetworkRepository.
type MockNetworkRepo struct {
	mock.Mock
}

func (m *MockNetworkRepo) Create(ctx context.Context, network *domain.Network) error {
	args := m.Called(ctx, network)
	return args.Error(0)
}

func (m *MockNetworkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Network, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Network), args.Error(1)
}

func (m *MockNetworkRepo) GetByName(ctx context.Context, name string) (*domain.Network, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Network), args.Error(1)
}

func (m *MockNetworkRepo) List(ctx context.Context, offset, limit int) ([]domain.Network, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Network), args.Int(1), args.Error(2)
}

func (m *MockNetworkRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]domain.Network, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Network), args.Error(1)
}

func (m *MockNetworkRepo) Delete(ctx context.Context, id, adminID uuid.UUID) error {
	args := m.Called(ctx, id, adminID)
	return args.Error(0)
}
