package domain

// UserRole defines the access level attached to a session token.
type UserRole string

const (
	// RoleAdmin owns networks and master spreadsheets.
	RoleAdmin UserRole = "admin"
	// RoleOperator is a field auditor connected to one network.
	RoleOperator UserRole = "operator"
)

// RoomKind distinguishes how a room maps onto its source sheet.
type RoomKind string

const (
	// RoomWholeSheet covers a sheet that holds exactly one room.
	RoomWholeSheet RoomKind = "whole-sheet"
	// RoomSlicedBlock covers one location block inside a sheet that packs
	// several rooms, each introduced by its own location-marker row.
	RoomSlicedBlock RoomKind = "sliced-block"
)

// FileStatus represents the lifecycle of an uploaded master spreadsheet.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// ReportFormat selects the artifact renderer for an audit report.
type ReportFormat string

const (
	// ReportFormatZip packs three single-tab workbooks into one ZIP,
	// the original deliverable of the audit workflow.
	ReportFormatZip ReportFormat = "zip"
	// ReportFormatWorkbook emits a single workbook with three tabs.
	ReportFormatWorkbook ReportFormat = "workbook"
	// ReportFormatCSV emits one Excel-compatible CSV with a partition column.
	ReportFormatCSV ReportFormat = "csv"
	// ReportFormatJSON emits the raw reconciliation result.
	ReportFormatJSON ReportFormat = "json"
)

// ParseReportFormat validates a caller-supplied format string, defaulting
// to the ZIP deliverable when empty.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch ReportFormat(s) {
	case "":
		return ReportFormatZip, nil
	case ReportFormatZip, ReportFormatWorkbook, ReportFormatCSV, ReportFormatJSON:
		return ReportFormat(s), nil
	default:
		return "", ErrUnknownReportFormat
	}
}
