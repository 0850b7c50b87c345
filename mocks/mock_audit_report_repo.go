package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patrimon/internal/domain"
)

// MockAuditReportRepo is a mock implementation of port.AuditReportRepository.
type MockAuditReportRepo struct {
	mock.Mock
}

func (m *MockAuditReportRepo) Create(ctx context.Context, report *domain.AuditReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockAuditReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditReport), args.Error(1)
}

func (m *MockAuditReportRepo) ListByNetwork(ctx context.Context, networkID uuid.UUID, offset, limit int) ([]domain.AuditReport, int, error) {
	args := m.Called(ctx, networkID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AuditReport), args.Int(1), args.Error(2)
}

func (m *MockAuditReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
