package schema

import (
	"patrimon/internal/domain"
	"patrimon/internal/tabular"
)

// legacySheetDetector handles the original master layout: one room per
// sheet, with an optional "Denominação" marker whose value one row below
// carries the room's display name. It always applies, so it terminates the
// detector chain.
type legacySheetDetector struct {
	windowRows int
	windowCols int
}

func (d *legacySheetDetector) Name() string { return "legacy-whole-sheet" }

func (d *legacySheetDetector) Detect(doc *tabular.Document, sheet string) ([]domain.Room, bool, error) {
	// One extra row so the value below a marker on the window's last row is
	// still reachable; the marker search itself stays bounded.
	window, err := doc.Window(sheet, d.windowRows+1, d.windowCols)
	if err != nil {
		return nil, false, err
	}

	room := domain.Room{
		ID:          roomIDForSheet(doc, sheet),
		DisplayName: sheet,
		SheetName:   sheet,
		Kind:        domain.RoomWholeSheet,
	}

	if name, ok := displayNameFromMarker(window, d.windowRows); ok {
		room.DisplayName = name
	}

	// The header row is wherever the inventory-code column shows up inside
	// the window. Without one the room is listed but yields no items.
	for r, row := range window {
		if r >= d.windowRows {
			break
		}
		roles := resolveColumns(row)
		if roles.code > 0 {
			room.HeaderRow = r + 1
			room.CodeCol = roles.code
			room.DescCol = roles.desc
			room.LocCol = roles.loc
			break
		}
	}

	return []domain.Room{room}, true, nil
}

// displayNameFromMarker scans the window in row-major order for a cell
// exactly equal to the display-name marker and returns the value of the
// cell immediately below it. First match wins.
func displayNameFromMarker(window [][]string, maxRows int) (string, bool) {
	for r, row := range window {
		if r >= maxRows {
			break
		}
		for c, cell := range row {
			if cell != markerDisplayName {
				continue
			}
			if r+1 < len(window) && c < len(window[r+1]) && window[r+1][c] != "" {
				return window[r+1][c], true
			}
			return "", false
		}
	}
	return "", false
}
