package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrDuplicateNetwork    = errors.New("network name already exists")
	ErrUnsupportedFileType = errors.New("unsupported file type; only .xlsx is accepted")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrUnreadableDocument  = errors.New("document is corrupt or not a readable spreadsheet")
	ErrRoomNotFound        = errors.New("room not found in the selected spreadsheet")
	ErrRoomNotExtractable  = errors.New("room has no detectable inventory-code column")
	ErrEmptyScanSet        = errors.New("scanned code list is empty")
	ErrNoRoomSelected      = errors.New("no room selected")
	ErrNoAnalystName       = errors.New("analyst name is required")
	ErrUnknownReportFormat = errors.New("unknown report format")
)
