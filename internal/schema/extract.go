package schema

import (
	"patrimon/internal/domain"
	"patrimon/internal/tabular"
)

// ExtractItems re-derives a room's expected items from its source sheet.
// Items are never persisted; each reconciliation works from a fresh read.
// Duplicate codes within the room keep only the first encountered row.
func ExtractItems(doc *tabular.Document, room *domain.Room) ([]domain.ExpectedItem, error) {
	if !room.Extractable() {
		return nil, domain.ErrRoomNotExtractable
	}

	it, err := doc.Rows(room.SheetName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = it.Close() }()

	first := room.FirstDataRow()
	var items []domain.ExpectedItem
	seen := make(map[string]struct{})

	for it.Next() {
		idx := it.Index()
		if idx < first {
			continue
		}
		if room.EndRow > 0 && idx > room.EndRow {
			break
		}
		cells, err := it.Cells()
		if err != nil {
			return nil, err
		}
		code := cellAt(cells, room.CodeCol)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		desc := cellAt(cells, room.DescCol)
		if desc == "" {
			desc = DescriptionFallback
		}
		items = append(items, domain.ExpectedItem{
			Code:        code,
			Description: desc,
			SourceRow:   append([]string(nil), cells...),
			RowIndex:    idx,
		})
	}
	return items, nil
}

// cellAt returns the trimmed value at a 1-indexed column, tolerating ragged
// rows and the zero "role not found" column.
func cellAt(cells []string, col int) string {
	if col <= 0 || col > len(cells) {
		return ""
	}
	return cells[col-1]
}
