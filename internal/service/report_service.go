package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/port"
)

// ReportService manages stored audit report history.
type ReportService interface {
	List(ctx context.Context, networkID uuid.UUID, offset, limit int) ([]domain.AuditReport, int, error)
	DownloadURL(ctx context.Context, networkID, reportID uuid.UUID) (string, error)
	Delete(ctx context.Context, adminID, reportID uuid.UUID) error
}

type reportService struct {
	reportRepo  port.AuditReportRepository
	networkRepo port.NetworkRepository
	storage     port.ObjectStorage
	s3Cfg       config.S3Config
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	reportRepo port.AuditReportRepository,
	networkRepo port.NetworkRepository,
	storage port.ObjectStorage,
	s3Cfg config.S3Config,
) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		networkRepo: networkRepo,
		storage:     storage,
		s3Cfg:       s3Cfg,
	}
}

func (s *reportService) List(ctx context.Context, networkID uuid.UUID, offset, limit int) ([]domain.AuditReport, int, error) {
	return s.reportRepo.ListByNetwork(ctx, networkID, offset, limit)
}

func (s *reportService) DownloadURL(ctx context.Context, networkID, reportID uuid.UUID) (string, error) {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return "", err
	}
	if rep.NetworkID == nil || *rep.NetworkID != networkID {
		return "", domain.ErrForbidden
	}
	if rep.S3Key == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, rep.S3Bucket, rep.S3Key, s.s3Cfg.PresignExpiry)
}

func (s *reportService) Delete(ctx context.Context, adminID, reportID uuid.UUID) error {
	rep, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if rep.NetworkID != nil {
		network, err := s.networkRepo.GetByID(ctx, *rep.NetworkID)
		if err == nil && network.AdminID != adminID {
			return domain.ErrForbidden
		}
	}

	if rep.S3Key != "" {
		if err := s.storage.Delete(ctx, rep.S3Bucket, rep.S3Key); err != nil {
			log.Printf("WARN report.Delete s3: report=%s err=%v", reportID, err)
		}
	}
	if rep.RawScanKey != "" {
		if err := s.storage.Delete(ctx, rep.S3Bucket, rep.RawScanKey); err != nil {
			log.Printf("WARN report.Delete raw: report=%s err=%v", reportID, err)
		}
	}
	return s.reportRepo.Delete(ctx, reportID)
}
