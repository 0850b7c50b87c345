package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an admin account. Operators are not persisted; they hold a
// network-scoped token issued when they join a network.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	City         string    `db:"city" json:"city"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Network is a password-protected audit group owned by one admin. Operators
// join a network to see that admin's master spreadsheets.
type Network struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	City         string    `db:"city" json:"city"`
	AdminID      uuid.UUID `db:"admin_id" json:"admin_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// MasterFile stores metadata about an uploaded master spreadsheet.
type MasterFile struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	OwnerID      uuid.UUID  `db:"owner_id" json:"owner_id"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	City         string     `db:"city" json:"city"`
	S3Bucket     string     `db:"s3_bucket" json:"-"`
	S3Key        string     `db:"s3_key" json:"-"`
	Fingerprint  string     `db:"fingerprint" json:"fingerprint"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AuditReport records a generated reconciliation artifact.
type AuditReport struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	NetworkID   *uuid.UUID   `db:"network_id" json:"network_id"`
	FileName    string       `db:"file_name" json:"file_name"`
	S3Bucket    string       `db:"s3_bucket" json:"-"`
	S3Key       string       `db:"s3_key" json:"-"`
	RawScanKey  string       `db:"raw_scan_key" json:"-"`
	RoomID      string       `db:"room_id" json:"room_id"`
	RoomName    string       `db:"room_name" json:"room_name"`
	AnalystName string       `db:"analyst_name" json:"analyst_name"`
	Format      ReportFormat `db:"format" json:"format"`
	Incomplete  bool         `db:"incomplete" json:"incomplete"`
	FileSize    int64        `db:"file_size" json:"file_size"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// Room is a logical audit unit derived from a master spreadsheet. Rooms are
// recomputed on every listing; the ID is stable for unchanged inputs so a
// reconcile request may reference it across calls.
type Room struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"display_name"`
	SourceDocument string   `json:"source_document"`
	SheetName      string   `json:"sheet_name"`
	Kind           RoomKind `json:"kind"`

	// Sliced-block bounds, 1-indexed rows within the sheet. StartRow is the
	// first data row; EndRow is the last (0 = to end of sheet). Whole-sheet
	// rooms leave both at 0 and use HeaderRow+1 as the first data row.
	StartRow int `json:"start_row,omitempty"`
	EndRow   int `json:"end_row,omitempty"`

	// Header geometry resolved by the schema inferencer. Columns are
	// 1-indexed; 0 means the role was not found.
	HeaderRow int `json:"header_row,omitempty"`
	CodeCol   int `json:"code_col,omitempty"`
	DescCol   int `json:"desc_col,omitempty"`
	LocCol    int `json:"loc_col,omitempty"`

	// Fingerprint of the source document bytes at listing time, so clients
	// can detect that a listing has gone stale.
	SourceFingerprint string `json:"source_fingerprint"`
}

// Extractable reports whether expected items can be derived for the room.
func (r *Room) Extractable() bool {
	return r.HeaderRow > 0 && r.CodeCol > 0
}

// FirstDataRow returns the 1-indexed row where the room's items begin.
func (r *Room) FirstDataRow() int {
	if r.StartRow > 0 {
		return r.StartRow
	}
	return r.HeaderRow + 1
}

// ExpectedItem is one inventory row expected in a room. SourceRow keeps the
// full row contents for verbatim reproduction in the misplaced-item report.
type ExpectedItem struct {
	Code        string   `json:"code"`
	Description string   `json:"description"`
	SourceRow   []string `json:"source_row"`
	RowIndex    int      `json:"row_index"`
}

// FoundLocation identifies where a misplaced code was resolved.
type FoundLocation struct {
	Document string `json:"document"`
	Sheet    string `json:"sheet"`
	RowIndex int    `json:"row_index"`
}

// SentinelNotFound is the fixed location marker for a misplaced code that
// was absent from every searched spreadsheet.
const SentinelNotFound = "not found in searched spreadsheets"

// MisplacedItem is a scanned code that was not expected in the target room.
type MisplacedItem struct {
	Code string `json:"code"`
	// Location is the resolved sheet name, or SentinelNotFound.
	Location string `json:"location"`
	// Resolved is set when the code was located in the search scope;
	// nil together with Location == SentinelNotFound means fully searched
	// and absent (as opposed to an incomplete search).
	Resolved *FoundLocation `json:"resolved,omitempty"`
	// SourceRow is the first encountered row at the resolved location.
	SourceRow []string `json:"source_row,omitempty"`
}

// ReconciliationResult partitions the union of expected and scanned codes.
// Verified ∪ Missing always equals the expected set exactly; every scanned
// code lands in exactly one of Verified or Misplaced.
type ReconciliationResult struct {
	Verified  []ExpectedItem  `json:"verified"`
	Missing   []ExpectedItem  `json:"missing"`
	Misplaced []MisplacedItem `json:"misplaced"`

	// Incomplete is set when the cross-reference search could not cover the
	// whole scope (unreadable files or cancellation). Sentinel locations in
	// an incomplete result are best-effort, not proof of absence.
	Incomplete    bool     `json:"incomplete"`
	FailedSources []string `json:"failed_sources,omitempty"`
}

// ReportArtifact is an in-memory rendered report plus a suggested filename.
// Persistence and transport are the caller's concern.
type ReportArtifact struct {
	Data        []byte
	Filename    string
	ContentType string
}
