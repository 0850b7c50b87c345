package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"patrimon/internal/domain"
)

// BOM marks the CSV as UTF-8 so Excel on Windows renders accents correctly.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// csvColumns defines the flat export layout: one row per code with its
// partition spelled out.
var csvColumns = []string{"Situação", "Código", "Descrição", "Localização"}

// Partition labels used in the CSV export.
const (
	csvVerified  = "Verificado"
	csvMissing   = "Não encontrado"
	csvMisplaced = "Local incorreto"
)

// CSVRenderer emits a single Excel-compatible CSV covering all three
// partitions.
type CSVRenderer struct{}

func (r *CSVRenderer) Render(in Input) (*domain.ReportArtifact, error) {
	var buf bytes.Buffer
	buf.Write(BOM)
	w := csv.NewWriter(&buf)

	if err := w.Write(csvColumns); err != nil {
		return nil, err
	}
	for _, item := range in.Result.Verified {
		if err := w.Write([]string{csvVerified, item.Code, item.Description, in.Room.DisplayName}); err != nil {
			return nil, err
		}
	}
	for _, item := range in.Result.Missing {
		if err := w.Write([]string{csvMissing, item.Code, item.Description, in.Room.DisplayName}); err != nil {
			return nil, err
		}
	}
	for _, item := range in.Result.Misplaced {
		if err := w.Write([]string{csvMisplaced, item.Code, "", item.Location}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return &domain.ReportArtifact{
		Data:        buf.Bytes(),
		Filename:    in.baseName() + ".csv",
		ContentType: "text/csv",
	}, nil
}
