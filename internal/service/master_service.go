package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/port"
	"patrimon/internal/tabular"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// UploadMasterInput is the DTO for master spreadsheet uploads.
type UploadMasterInput struct {
	FileName string
	Size     int64
	City     string
	Reader   io.Reader
}

// MasterService manages master spreadsheet uploads and retrieval.
type MasterService interface {
	Upload(ctx context.Context, ownerID uuid.UUID, input UploadMasterInput) (*domain.MasterFile, error)
	List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.MasterFile, int, error)
	Get(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, error)
	Fetch(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, []byte, error)
	DownloadURL(ctx context.Context, ownerID, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, ownerID, fileID uuid.UUID) error
}

type masterService struct {
	fileRepo port.MasterFileRepository
	storage  port.ObjectStorage
	s3Cfg    config.S3Config
}

// NewMasterService creates a new MasterService implementation.
func NewMasterService(
	fileRepo port.MasterFileRepository,
	storage port.ObjectStorage,
	s3Cfg config.S3Config,
) MasterService {
	return &masterService{
		fileRepo: fileRepo,
		storage:  storage,
		s3Cfg:    s3Cfg,
	}
}

func (s *masterService) Upload(ctx context.Context, ownerID uuid.UUID, input UploadMasterInput) (*domain.MasterFile, error) {
	if strings.ToLower(filepath.Ext(input.FileName)) != ".xlsx" {
		return nil, domain.ErrUnsupportedFileType
	}
	maxSize := s.s3Cfg.MaxFileSizeMB * 1024 * 1024
	if input.Size > maxSize {
		return nil, domain.ErrFileTooLarge
	}

	// Buffer the whole file: the size cap is small and the bytes are needed
	// twice, once for the fingerprint and once for the readability probe.
	data, err := io.ReadAll(io.LimitReader(input.Reader, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("master.Upload read: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, domain.ErrFileTooLarge
	}

	// Reject corrupt uploads before they reach storage.
	doc, err := tabular.Open(input.FileName, data)
	if err != nil {
		return nil, err
	}
	_ = doc.Close()

	fileID := uuid.New()
	key := fmt.Sprintf("masters/%s/%s.xlsx", ownerID, fileID)

	file := &domain.MasterFile{
		ID:           fileID,
		OwnerID:      ownerID,
		FileName:     fmt.Sprintf("%s.xlsx", fileID),
		OriginalName: input.FileName,
		FileSize:     int64(len(data)),
		City:         input.City,
		S3Bucket:     s.s3Cfg.Bucket,
		S3Key:        key,
		Fingerprint:  tabular.Fingerprint(data),
		Status:       domain.FileStatusPending,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: xlsxContentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("ERROR master.Upload s3: file=%s err=%v", fileID, err)
		if uerr := s.fileRepo.UpdateStatus(ctx, ownerID, fileID, domain.FileStatusFailed); uerr != nil {
			log.Printf("ERROR master.Upload status: file=%s err=%v", fileID, uerr)
		}
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, ownerID, fileID, domain.FileStatusUploaded); err != nil {
		return nil, err
	}
	file.Status = domain.FileStatusUploaded
	return file, nil
}

func (s *masterService) List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.MasterFile, int, error) {
	return s.fileRepo.ListByOwner(ctx, ownerID, offset, limit)
}

func (s *masterService) Get(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, error) {
	return s.fileRepo.GetByID(ctx, ownerID, fileID)
}

// Fetch returns the metadata row together with the spreadsheet bytes.
func (s *masterService) Fetch(ctx context.Context, ownerID, fileID uuid.UUID) (*domain.MasterFile, []byte, error) {
	file, err := s.fileRepo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		return nil, nil, fmt.Errorf("master.Fetch download: %w", err)
	}
	return file, data, nil
}

func (s *masterService) DownloadURL(ctx context.Context, ownerID, fileID uuid.UUID) (string, error) {
	file, err := s.fileRepo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, file.S3Bucket, file.S3Key, s.s3Cfg.PresignExpiry)
}

func (s *masterService) Delete(ctx context.Context, ownerID, fileID uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, ownerID, fileID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, file.S3Bucket, file.S3Key); err != nil {
		log.Printf("WARN master.Delete s3: file=%s err=%v", fileID, err)
	}
	return s.fileRepo.Delete(ctx, ownerID, fileID)
}
