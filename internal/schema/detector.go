// Package schema infers the tabular layout of loosely structured master
// spreadsheets: where the headers sit, which columns carry the inventory
// code and description, and whether a sheet packs several rooms into
// repeated location blocks.
package schema

import (
	"fmt"
	"log"
	"strings"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/slug"
	"patrimon/internal/tabular"
)

// Spreadsheet markers. The source material is Brazilian asset registries;
// the labels are part of the file format, not UI text.
const (
	markerDisplayName = "Denominação"
	markerLocation    = "Localização"

	headerCodeMasc = "nº invent"
	headerCodeAlt  = "n° invent"
	headerDesc     = "denominação"
	headerDescSkip = "imobilizado"
	headerLocation = "localização"
)

// DescriptionFallback is used when no description column was detected.
const DescriptionFallback = "Sem descrição"

// Detector tries to derive rooms from one sheet. ok=false means the
// detector does not apply and the next one in the chain is consulted.
type Detector interface {
	Name() string
	Detect(doc *tabular.Document, sheet string) (rooms []domain.Room, ok bool, err error)
}

// Inferencer runs the detector chain over every sheet of a document.
// Detector order is fixed: the sliced-block detector runs before the legacy
// whole-sheet detector, so a sheet with location blocks never also yields a
// whole-sheet room.
type Inferencer struct {
	detectors []Detector
}

// NewInferencer builds the standard detector chain. The window bounds apply
// to the legacy display-name search only; block markers may appear anywhere.
func NewInferencer(cfg config.ReconConfig) *Inferencer {
	rows, cols := cfg.HeaderRows, cfg.HeaderCols
	if rows <= 0 {
		rows = 20
	}
	if cols <= 0 {
		cols = 20
	}
	return &Inferencer{
		detectors: []Detector{
			&slicedBlockDetector{},
			&legacySheetDetector{windowRows: rows, windowCols: cols},
		},
	}
}

// InferRooms derives the room list for a document. Sheets that cannot be
// read are skipped and logged; room ids are de-duplicated within the call.
func (inf *Inferencer) InferRooms(doc *tabular.Document) ([]domain.Room, error) {
	var all []domain.Room
	seen := make(map[string]int)

	for _, sheet := range doc.Sheets() {
		rooms, err := inf.inferSheet(doc, sheet)
		if err != nil {
			log.Printf("schema: skipping unreadable sheet %s!%s: %v", doc.Name(), sheet, err)
			continue
		}
		for i := range rooms {
			rooms[i].SourceDocument = doc.Name()
			rooms[i].SourceFingerprint = doc.ContentFingerprint()
			rooms[i].ID = UniqueID(rooms[i].ID, seen)
		}
		all = append(all, rooms...)
	}
	return all, nil
}

func (inf *Inferencer) inferSheet(doc *tabular.Document, sheet string) ([]domain.Room, error) {
	for _, d := range inf.detectors {
		rooms, ok, err := d.Detect(doc, sheet)
		if err != nil {
			return nil, err
		}
		if ok {
			return rooms, nil
		}
	}
	// The legacy detector always applies; reaching here means an empty chain.
	return nil, nil
}

// UniqueID suffixes colliding ids so one listing never returns two rooms
// with the same id. Callers listing several documents share one seen map
// across all of them; ids stay stable for a fixed document order.
func UniqueID(id string, seen map[string]int) string {
	n := seen[id]
	seen[id] = n + 1
	if n == 0 {
		return id
	}
	candidate := fmt.Sprintf("%s#%d", id, n+1)
	for seen[candidate] > 0 {
		seen[id]++
		candidate = fmt.Sprintf("%s#%d", id, seen[id])
	}
	seen[candidate]++
	return candidate
}

// columnRoles resolves header column roles by lowercase substring match.
// Zero means the role was not found. A row without a code column is
// unusable for extraction.
type columnRoles struct {
	code int
	desc int
	loc  int
}

func resolveColumns(row []string) columnRoles {
	var roles columnRoles
	for i, cell := range row {
		lower := strings.ToLower(cell)
		col := i + 1
		switch {
		case roles.code == 0 && (strings.Contains(lower, headerCodeMasc) || strings.Contains(lower, headerCodeAlt)):
			roles.code = col
		case roles.desc == 0 && strings.Contains(lower, headerDesc) && !strings.Contains(lower, headerDescSkip):
			roles.desc = col
		case roles.loc == 0 && strings.Contains(lower, headerLocation):
			roles.loc = col
		}
	}
	return roles
}

func roomIDForSheet(doc *tabular.Document, sheet string) string {
	return slug.MakeOr(doc.Name(), "doc") + "/" + sheet
}
