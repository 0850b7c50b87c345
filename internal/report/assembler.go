// Package report renders reconciliation results into downloadable
// artifacts. Renderers are pluggable behind a single contract: partitions
// in, artifact out. Visual fidelity to the source spreadsheet is
// best-effort; the partitions are the contract.
package report

import (
	"fmt"
	"time"

	"patrimon/internal/domain"
	"patrimon/internal/slug"
)

// Tab names used across renderers; these are the labels auditors know from
// the original deliverable.
const (
	TabVerified  = "Verificados"
	TabMissing   = "Nao Encontrados"
	TabMisplaced = "Local Incorreto"
)

// Input carries everything a renderer needs.
type Input struct {
	Result      *domain.ReconciliationResult
	Room        *domain.Room
	AnalystName string
	GeneratedAt time.Time

	// SourceData holds the target document bytes so workbook renderers can
	// carry styling over from the original sheet.
	SourceData []byte
}

// baseName builds the deterministic, sanitized artifact name stem:
// slug(analyst)_slug(room)_YYYYMMDD_HHMMSS.
func (in *Input) baseName() string {
	return fmt.Sprintf("%s_%s_%s",
		slug.MakeOr(in.AnalystName, "analista"),
		slug.MakeOr(in.Room.DisplayName, "sala"),
		in.GeneratedAt.Format("20060102_150405"),
	)
}

// Renderer turns a reconciliation result into one artifact format.
type Renderer interface {
	Render(in Input) (*domain.ReportArtifact, error)
}

// Assembler dispatches to the renderer registered for a format.
type Assembler struct {
	renderers map[domain.ReportFormat]Renderer
}

// NewAssembler registers the standard renderers.
func NewAssembler() *Assembler {
	return &Assembler{
		renderers: map[domain.ReportFormat]Renderer{
			domain.ReportFormatZip:      &ZipRenderer{},
			domain.ReportFormatWorkbook: &WorkbookRenderer{},
			domain.ReportFormatCSV:      &CSVRenderer{},
			domain.ReportFormatJSON:     &JSONRenderer{},
		},
	}
}

// Render produces the artifact for the requested format.
func (a *Assembler) Render(format domain.ReportFormat, in Input) (*domain.ReportArtifact, error) {
	r, ok := a.renderers[format]
	if !ok {
		return nil, domain.ErrUnknownReportFormat
	}
	artifact, err := r.Render(in)
	if err != nil {
		return nil, fmt.Errorf("report.Render %s: %w", format, err)
	}
	return artifact, nil
}
