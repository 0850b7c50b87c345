package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/port"
	"patrimon/internal/recon"
	"patrimon/internal/report"
	"patrimon/internal/schema"
	"patrimon/internal/tabular"
)

// ReconcileInput is the DTO for reconciliation requests. FileIDs selects the
// master spreadsheets in scope, in the operator's priority order; empty means
// every master the network's admin owns, newest first.
type ReconcileInput struct {
	RoomID      string      `json:"room_id" binding:"required"`
	AnalystName string      `json:"analyst_name" binding:"required"`
	RawScan     string      `json:"raw_scan" binding:"required"`
	Format      string      `json:"format"`
	FileIDs     []uuid.UUID `json:"file_ids"`
}

// RoomListing pairs the inferred rooms with the files they came from, so
// clients can detect stale listings via the fingerprints.
type RoomListing struct {
	Rooms []domain.Room       `json:"rooms"`
	Files []domain.MasterFile `json:"files"`
}

// AuditService runs room listings and reconciliations for a network.
type AuditService interface {
	ListRooms(ctx context.Context, networkID uuid.UUID, fileIDs []uuid.UUID) (*RoomListing, error)
	Reconcile(ctx context.Context, networkID uuid.UUID, input ReconcileInput) (*domain.AuditReport, *domain.ReportArtifact, error)
}

type auditService struct {
	networkRepo port.NetworkRepository
	reportRepo  port.AuditReportRepository
	masters     MasterService
	storage     port.ObjectStorage
	inferencer  *schema.Inferencer
	engine      *recon.Engine
	assembler   *report.Assembler
	s3Cfg       config.S3Config
	reconCfg    config.ReconConfig
}

// NewAuditService creates a new AuditService implementation.
func NewAuditService(
	networkRepo port.NetworkRepository,
	reportRepo port.AuditReportRepository,
	masters MasterService,
	storage port.ObjectStorage,
	cfg *config.Config,
) AuditService {
	return &auditService{
		networkRepo: networkRepo,
		reportRepo:  reportRepo,
		masters:     masters,
		storage:     storage,
		inferencer:  schema.NewInferencer(cfg.Recon),
		engine:      recon.NewEngine(cfg.Recon),
		assembler:   report.NewAssembler(),
		s3Cfg:       cfg.S3,
		reconCfg:    cfg.Recon,
	}
}

// scopedFile is one fetched master: metadata plus spreadsheet bytes.
type scopedFile struct {
	meta *domain.MasterFile
	data []byte
}

func (s *auditService) ListRooms(ctx context.Context, networkID uuid.UUID, fileIDs []uuid.UUID) (*RoomListing, error) {
	files, err := s.fetchScope(ctx, networkID, fileIDs)
	if err != nil {
		return nil, err
	}

	listing := &RoomListing{}
	for i := range files {
		listing.Files = append(listing.Files, *files[i].meta)
	}
	for _, sr := range s.scopeRooms(files) {
		listing.Rooms = append(listing.Rooms, sr.room)
	}
	return listing, nil
}

func (s *auditService) Reconcile(ctx context.Context, networkID uuid.UUID, input ReconcileInput) (*domain.AuditReport, *domain.ReportArtifact, error) {
	// Validate everything cheap before any storage round-trip.
	if strings.TrimSpace(input.AnalystName) == "" {
		return nil, nil, domain.ErrNoAnalystName
	}
	if strings.TrimSpace(input.RoomID) == "" {
		return nil, nil, domain.ErrNoRoomSelected
	}
	scanned := domain.ParseScanSet(input.RawScan)
	if scanned.Len() == 0 {
		return nil, nil, domain.ErrEmptyScanSet
	}
	format, err := domain.ParseReportFormat(input.Format)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.fetchScope(ctx, networkID, input.FileIDs)
	if err != nil {
		return nil, nil, err
	}

	target, room, err := s.findRoom(files, input.RoomID)
	if err != nil {
		return nil, nil, err
	}

	doc, err := tabular.Open(target.meta.OriginalName, target.data)
	if err != nil {
		return nil, nil, err
	}
	expected, err := schema.ExtractItems(doc, room)
	closeErr := doc.Close()
	if err != nil {
		return nil, nil, err
	}
	if closeErr != nil {
		return nil, nil, fmt.Errorf("audit.Reconcile close: %w", closeErr)
	}

	scope := buildScope(files, target, room)

	scanCtx := ctx
	if s.reconCfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(ctx, s.reconCfg.ScanTimeout)
		defer cancel()
	}
	result, err := s.engine.Reconcile(scanCtx, expected, scanned, scope)
	if err != nil {
		return nil, nil, err
	}

	artifact, err := s.assembler.Render(format, report.Input{
		Result:      result,
		Room:        room,
		AnalystName: input.AnalystName,
		GeneratedAt: time.Now().UTC(),
		SourceData:  target.data,
	})
	if err != nil {
		return nil, nil, err
	}

	record, err := s.persist(ctx, networkID, input, room, result, artifact, format)
	if err != nil {
		return nil, nil, err
	}
	return record, artifact, nil
}

// persist archives the raw scan and the artifact, then records the report.
// The artifact is still returned to the caller even if archival fails; the
// operator in the field needs the download more than the history row.
func (s *auditService) persist(
	ctx context.Context,
	networkID uuid.UUID,
	input ReconcileInput,
	room *domain.Room,
	result *domain.ReconciliationResult,
	artifact *domain.ReportArtifact,
	format domain.ReportFormat,
) (*domain.AuditReport, error) {
	key := fmt.Sprintf("reports/%s/%s", networkID, artifact.Filename)
	base := strings.TrimSuffix(artifact.Filename, filepath.Ext(artifact.Filename))
	rawKey := fmt.Sprintf("reports/%s/raw/%s.txt", networkID, base)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         rawKey,
		Body:        strings.NewReader(input.RawScan),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(input.RawScan)),
	}); err != nil {
		log.Printf("WARN audit.Reconcile: raw scan archive failed: %v", err)
		rawKey = ""
	}

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3Cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(artifact.Data),
		ContentType: artifact.ContentType,
		Size:        int64(len(artifact.Data)),
	}); err != nil {
		log.Printf("WARN audit.Reconcile: artifact archive failed: %v", err)
		return &domain.AuditReport{
			ID:          uuid.New(),
			NetworkID:   &networkID,
			FileName:    artifact.Filename,
			RoomID:      room.ID,
			RoomName:    room.DisplayName,
			AnalystName: input.AnalystName,
			Format:      format,
			Incomplete:  result.Incomplete,
			FileSize:    int64(len(artifact.Data)),
		}, nil
	}

	record := &domain.AuditReport{
		ID:          uuid.New(),
		NetworkID:   &networkID,
		FileName:    artifact.Filename,
		S3Bucket:    s.s3Cfg.Bucket,
		S3Key:       key,
		RawScanKey:  rawKey,
		RoomID:      room.ID,
		RoomName:    room.DisplayName,
		AnalystName: input.AnalystName,
		Format:      format,
		Incomplete:  result.Incomplete,
		FileSize:    int64(len(artifact.Data)),
	}
	if err := s.reportRepo.Create(ctx, record); err != nil {
		log.Printf("WARN audit.Reconcile: report row insert failed: %v", err)
	}
	return record, nil
}

// fetchScope resolves the network's admin and downloads the selected master
// spreadsheets, preserving the caller's order. Empty selection means every
// master the admin owns, newest first.
func (s *auditService) fetchScope(ctx context.Context, networkID uuid.UUID, fileIDs []uuid.UUID) ([]scopedFile, error) {
	network, err := s.networkRepo.GetByID(ctx, networkID)
	if err != nil {
		return nil, err
	}
	ownerID := network.AdminID

	if len(fileIDs) == 0 {
		metas, _, err := s.masters.List(ctx, ownerID, 0, allMastersLimit)
		if err != nil {
			return nil, err
		}
		for _, meta := range metas {
			fileIDs = append(fileIDs, meta.ID)
		}
	}
	if len(fileIDs) == 0 {
		return nil, domain.ErrNotFound
	}

	files := make([]scopedFile, 0, len(fileIDs))
	for _, id := range fileIDs {
		meta, data, err := s.masters.Fetch(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		files = append(files, scopedFile{meta: meta, data: data})
	}
	return files, nil
}

const allMastersLimit = 500

// scopeRoom pairs an inferred room with the master file it came from.
type scopeRoom struct {
	file *scopedFile
	room domain.Room
}

// scopeRooms infers rooms across every fetched master, de-duplicating ids
// over the whole scope: two uploads sharing a file name still list distinct
// rooms. Unreadable masters are skipped with a warning.
func (s *auditService) scopeRooms(files []scopedFile) []scopeRoom {
	seen := make(map[string]int)
	var out []scopeRoom
	for i := range files {
		doc, err := tabular.Open(files[i].meta.OriginalName, files[i].data)
		if err != nil {
			log.Printf("WARN audit: skipping unreadable master %s: %v", files[i].meta.ID, err)
			continue
		}
		rooms, err := s.inferencer.InferRooms(doc)
		_ = doc.Close()
		if err != nil {
			log.Printf("WARN audit: skipping master %s: %v", files[i].meta.ID, err)
			continue
		}
		for j := range rooms {
			rooms[j].ID = schema.UniqueID(rooms[j].ID, seen)
			out = append(out, scopeRoom{file: &files[i], room: rooms[j]})
		}
	}
	return out
}

// findRoom locates the requested room across the fetched masters by
// re-running inference, so a room id stays valid across calls as long as the
// file selection and its contents are unchanged.
func (s *auditService) findRoom(files []scopedFile, roomID string) (*scopedFile, *domain.Room, error) {
	for _, sr := range s.scopeRooms(files) {
		if sr.room.ID == roomID {
			room := sr.room
			return sr.file, &room, nil
		}
	}
	return nil, nil, domain.ErrRoomNotFound
}

// buildScope orders the search scope: the target document first, with the
// room's own rows excluded, then the remaining files in request order.
func buildScope(files []scopedFile, target *scopedFile, room *domain.Room) []recon.ScopeFile {
	scope := make([]recon.ScopeFile, 0, len(files))

	targetScope := recon.ScopeFile{
		Name:         target.meta.OriginalName,
		Data:         target.data,
		ExcludeSheet: room.SheetName,
	}
	if room.Kind == domain.RoomSlicedBlock {
		// Only the block itself is off-limits; sibling blocks on the same
		// sheet are legitimate resolution targets.
		targetScope.ExcludeStart = room.StartRow
		targetScope.ExcludeEnd = room.EndRow
	}
	scope = append(scope, targetScope)

	for i := range files {
		if files[i].meta.ID == target.meta.ID {
			continue
		}
		scope = append(scope, recon.ScopeFile{
			Name: files[i].meta.OriginalName,
			Data: files[i].data,
		})
	}
	return scope
}
