package schema

import (
	"strings"
	"unicode/utf8"

	"patrimon/internal/domain"
	"patrimon/internal/slug"
	"patrimon/internal/tabular"
)

// slicedBlockDetector splits a sheet that packs several rooms into blocks,
// each introduced by a row whose cell contains the location marker. The
// marker row doubles as the block's header row; its data runs until the
// next marker or the end of the sheet.
type slicedBlockDetector struct{}

func (d *slicedBlockDetector) Name() string { return "sliced-block" }

func (d *slicedBlockDetector) Detect(doc *tabular.Document, sheet string) ([]domain.Room, bool, error) {
	it, err := doc.Rows(sheet)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = it.Close() }()

	var rooms []domain.Room
	sheetID := roomIDForSheet(doc, sheet)

	for it.Next() {
		cells, err := it.Cells()
		if err != nil {
			return nil, false, err
		}
		label, found := locationLabel(cells)
		if !found {
			continue
		}

		markerRow := it.Index()
		if n := len(rooms); n > 0 {
			rooms[n-1].EndRow = markerRow - 1
		}

		roles := resolveColumns(cells)
		rooms = append(rooms, domain.Room{
			ID:          sheetID + "::" + slug.MakeOr(label, "bloco"),
			DisplayName: label,
			SheetName:   sheet,
			Kind:        domain.RoomSlicedBlock,
			HeaderRow:   markerRow,
			StartRow:    markerRow + 1,
			CodeCol:     roles.code,
			DescCol:     roles.desc,
			LocCol:      roles.loc,
		})
	}

	return rooms, len(rooms) > 0, nil
}

// locationLabel finds the first cell of a row containing the location
// marker. When the cell already carries an identifying value beyond the
// marker word it is used verbatim; otherwise the marker is joined with the
// immediately following cell.
func locationLabel(cells []string) (string, bool) {
	for i, cell := range cells {
		if !strings.Contains(cell, markerLocation) {
			continue
		}
		if utf8.RuneCountInString(cell) > utf8.RuneCountInString(markerLocation)+1 {
			return cell, true
		}
		if i+1 < len(cells) && cells[i+1] != "" {
			return strings.TrimSpace(cell + " " + cells[i+1]), true
		}
		return cell, true
	}
	return "", false
}
