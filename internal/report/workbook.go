package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"patrimon/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookRenderer emits a single workbook with the three partition tabs.
// The verified tab is a styled copy of the source sheet with matched rows
// filled green; the missing tab re-creates the original column layout.
type WorkbookRenderer struct{}

func (r *WorkbookRenderer) Render(in Input) (*domain.ReportArtifact, error) {
	f, err := buildPartitionWorkbook(in)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	// Keep only the three partition tabs.
	for _, sheet := range f.GetSheetList() {
		switch sheet {
		case TabVerified, TabMissing, TabMisplaced:
		default:
			if err := f.DeleteSheet(sheet); err != nil {
				return nil, fmt.Errorf("deleting source sheet %s: %w", sheet, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return &domain.ReportArtifact{
		Data:        buf.Bytes(),
		Filename:    in.baseName() + ".xlsx",
		ContentType: xlsxContentType,
	}, nil
}

// buildPartitionWorkbook opens the source document and appends the three
// partition sheets to it, preserving the original sheets so callers can
// decide what to keep.
func buildPartitionWorkbook(in Input) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(in.SourceData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	if err := addVerifiedSheet(f, in); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := addMissingSheet(f, in); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := addMisplacedSheet(f, in); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// addVerifiedSheet copies the whole source sheet (keeping merged cells,
// widths, and fonts) and fills every verified row green.
func addVerifiedSheet(f *excelize.File, in Input) error {
	srcIdx, err := f.GetSheetIndex(in.Room.SheetName)
	if err != nil || srcIdx < 0 {
		return fmt.Errorf("source sheet %q not in workbook: %w", in.Room.SheetName, domain.ErrRoomNotFound)
	}
	dstIdx, err := f.NewSheet(TabVerified)
	if err != nil {
		return fmt.Errorf("creating %s sheet: %w", TabVerified, err)
	}
	if err := f.CopySheet(srcIdx, dstIdx); err != nil {
		return fmt.Errorf("copying source sheet: %w", err)
	}

	greenFill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00FF00"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating highlight style: %w", err)
	}

	for _, item := range in.Result.Verified {
		width := len(item.SourceRow)
		if width == 0 {
			width = 1
		}
		start, err := excelize.CoordinatesToCellName(1, item.RowIndex)
		if err != nil {
			return err
		}
		end, err := excelize.CoordinatesToCellName(width, item.RowIndex)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(TabVerified, start, end, greenFill); err != nil {
			return fmt.Errorf("highlighting row %d: %w", item.RowIndex, err)
		}
	}
	return nil
}

// addMissingSheet re-creates the original header and column widths, then
// appends only the rows whose codes went unscanned.
func addMissingSheet(f *excelize.File, in Input) error {
	if _, err := f.NewSheet(TabMissing); err != nil {
		return fmt.Errorf("creating %s sheet: %w", TabMissing, err)
	}

	header, maxCols, err := sourceHeader(f, in.Room)
	if err != nil {
		return err
	}
	copyColumnWidths(f, in.Room.SheetName, TabMissing, maxCols)

	rowIdx := 1
	if len(header) > 0 {
		if err := writeRow(f, TabMissing, rowIdx, header); err != nil {
			return err
		}
		rowIdx++
	}
	for _, item := range in.Result.Missing {
		if err := writeRow(f, TabMissing, rowIdx, item.SourceRow); err != nil {
			return err
		}
		rowIdx++
	}
	return nil
}

// addMisplacedSheet lists each misplaced code with where it was expected,
// where it was actually found, and the found row's own values.
func addMisplacedSheet(f *excelize.File, in Input) error {
	if _, err := f.NewSheet(TabMisplaced); err != nil {
		return fmt.Errorf("creating %s sheet: %w", TabMisplaced, err)
	}
	header := []string{"Código", "Local Esperado", "Encontrado Em"}
	if err := writeRow(f, TabMisplaced, 1, header); err != nil {
		return err
	}
	for i, item := range in.Result.Misplaced {
		row := []string{item.Code, in.Room.DisplayName, item.Location}
		row = append(row, item.SourceRow...)
		if err := writeRow(f, TabMisplaced, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// sourceHeader reads the room's header row values from the source sheet.
func sourceHeader(f *excelize.File, room *domain.Room) ([]string, int, error) {
	rows, err := f.GetRows(room.SheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("reading source sheet: %w", err)
	}
	headerRow := room.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}
	maxCols := 0
	for _, row := range rows {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}
	if headerRow-1 < len(rows) {
		return rows[headerRow-1], maxCols, nil
	}
	return nil, maxCols, nil
}

// copyColumnWidths mirrors source column widths onto dst, best-effort.
func copyColumnWidths(f *excelize.File, src, dst string, maxCols int) {
	for col := 1; col <= maxCols; col++ {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			continue
		}
		width, err := f.GetColWidth(src, name)
		if err != nil {
			continue
		}
		_ = f.SetColWidth(dst, name, name, width)
	}
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, rowIdx, err)
	}
	return nil
}
