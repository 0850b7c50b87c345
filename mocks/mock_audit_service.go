package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patrimon/internal/domain"
	"patrimon/internal/service"
)

// MockAuditService is a mock implementation of service.AuditService.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) ListRooms(ctx context.Context, networkID uuid.UUID, fileIDs []uuid.UUID) (*service.RoomListing, error) {
	args := m.Called(ctx, networkID, fileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RoomListing), args.Error(1)
}

func (m *MockAuditService) Reconcile(ctx context.Context, networkID uuid.UUID, input service.ReconcileInput) (*domain.AuditReport, *domain.ReportArtifact, error) {
	args := m.Called(ctx, networkID, input)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.AuditReport), args.Get(1).(*domain.ReportArtifact), args.Error(2)
}
