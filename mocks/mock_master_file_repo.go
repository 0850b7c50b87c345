package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patrimon/internal/domain"
)

// MockMasterFileRepo is a mock implementation of port.MasterFileRepository.
type MockMasterFileRepo struct {
	mock.Mock
}

func (m *MockMasterFileRepo) Create(ctx context.Context, file *domain.MasterFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockMasterFileRepo) GetByID(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, error) {
	args := m.Called(ctx, ownerID, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterFile), args.Error(1)
}

func (m *MockMasterFileRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.MasterFile, int, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.MasterFile), args.Int(1), args.Error(2)
}

func (m *MockMasterFileRepo) UpdateStatus(ctx context.Context, ownerID, fileID uuid.UUID, status domain.FileStatus) error {
	args := m.Called(ctx, ownerID, fileID, status)
	return args.Error(0)
}

func (m *MockMasterFileRepo) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	args := m.Called(ctx, ownerID, fileID)
	return args.Error(0)
}
