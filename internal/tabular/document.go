// Package tabular reads spreadsheet documents as ordered sheets of rows of
// text cells. It is the only package that touches excelize directly for
// reading; values are always exposed trimmed, since all matching downstream
// is exact trimmed string equality.
package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/xxh3"

	"patrimon/internal/domain"
)

// Document is an opened spreadsheet. It is exclusively owned by one request
// and must be closed on every exit path.
type Document struct {
	name        string
	fingerprint string
	file        *excelize.File
}

// Open parses document bytes into a Document. The name identifies the
// document in room ids and misplaced-item locations.
func Open(name string, data []byte) (*Document, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableDocument, name, err)
	}
	return &Document{
		name:        name,
		fingerprint: Fingerprint(data),
		file:        f,
	}, nil
}

// Fingerprint hashes document bytes for stale-listing detection.
func Fingerprint(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}

// Name returns the document's identifying filename.
func (d *Document) Name() string { return d.name }

// ContentFingerprint returns the hash computed at open time.
func (d *Document) ContentFingerprint() string { return d.fingerprint }

// Sheets returns sheet names in workbook order.
func (d *Document) Sheets() []string { return d.file.GetSheetList() }

// Close releases the underlying file resources.
func (d *Document) Close() error { return d.file.Close() }

// File exposes the underlying workbook for the report assembler, which
// needs write access and style carry-over.
func (d *Document) File() *excelize.File { return d.file }

// Rows returns a streaming iterator over every row of a sheet, values only.
// The caller must Close the iterator.
func (d *Document) Rows(sheet string) (*RowIterator, error) {
	rows, err := d.file.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s!%s: %v", domain.ErrUnreadableDocument, d.name, sheet, err)
	}
	return &RowIterator{rows: rows}, nil
}

// AllRows loads a whole sheet as trimmed cell text. Ragged rows keep their
// natural length; callers index defensively.
func (d *Document) AllRows(sheet string) ([][]string, error) {
	rows, err := d.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s!%s: %v", domain.ErrUnreadableDocument, d.name, sheet, err)
	}
	for _, row := range rows {
		trimRow(row)
	}
	return rows, nil
}

// Window loads at most maxRows×maxCols trimmed cells from the top-left of a
// sheet. Used for bounded header searches; full-sheet scans go through Rows.
func (d *Document) Window(sheet string, maxRows, maxCols int) ([][]string, error) {
	it, err := d.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	var window [][]string
	for it.Next() && len(window) < maxRows {
		cells, err := it.Cells()
		if err != nil {
			return nil, fmt.Errorf("%w: %s!%s: %v", domain.ErrUnreadableDocument, d.name, sheet, err)
		}
		if len(cells) > maxCols {
			cells = cells[:maxCols]
		}
		window = append(window, cells)
	}
	return window, nil
}

// RowIterator streams rows of one sheet. Row indices are 1-based.
type RowIterator struct {
	rows *excelize.Rows
	idx  int
}

// Next advances to the next row.
func (it *RowIterator) Next() bool {
	if !it.rows.Next() {
		return false
	}
	it.idx++
	return true
}

// Index returns the 1-based index of the current row.
func (it *RowIterator) Index() int { return it.idx }

// Cells returns the current row's trimmed cell values.
func (it *RowIterator) Cells() ([]string, error) {
	cells, err := it.rows.Columns()
	if err != nil {
		return nil, err
	}
	trimRow(cells)
	return cells, nil
}

// Close releases the iterator's resources.
func (it *RowIterator) Close() error { return it.rows.Close() }

func trimRow(row []string) {
	for i, v := range row {
		row[i] = strings.TrimSpace(v)
	}
}
