package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/xuri/excelize/v2"

	"patrimon/internal/domain"
)

// ZipRenderer packs three single-tab workbooks into one ZIP, the original
// deliverable of the audit workflow. Each workbook is the full partition
// workbook trimmed down to one tab, so styling survives intact.
type ZipRenderer struct{}

func (r *ZipRenderer) Render(in Input) (*domain.ReportArtifact, error) {
	f, err := buildPartitionWorkbook(in)
	if err != nil {
		return nil, err
	}
	combined, err := f.WriteToBuffer()
	closeErr := f.Close()
	if err != nil {
		return nil, fmt.Errorf("writing combined workbook: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("closing combined workbook: %w", closeErr)
	}

	base := in.baseName()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	for _, tab := range []string{TabVerified, TabMissing, TabMisplaced} {
		single, err := trimToSheet(combined.Bytes(), tab)
		if err != nil {
			return nil, err
		}
		entry, err := zw.Create(fmt.Sprintf("%s_%s.xlsx", base, tabFileToken(tab)))
		if err != nil {
			return nil, fmt.Errorf("creating zip entry for %s: %w", tab, err)
		}
		if _, err := entry.Write(single); err != nil {
			return nil, fmt.Errorf("writing zip entry for %s: %w", tab, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}

	return &domain.ReportArtifact{
		Data:        buf.Bytes(),
		Filename:    base + ".zip",
		ContentType: "application/zip",
	}, nil
}

// trimToSheet reloads the combined workbook and deletes every sheet except
// keep, yielding a standalone single-tab workbook.
func trimToSheet(combined []byte, keep string) ([]byte, error) {
	f, err := excelize.OpenReader(bytes.NewReader(combined))
	if err != nil {
		return nil, fmt.Errorf("reopening combined workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, sheet := range f.GetSheetList() {
		if sheet == keep {
			continue
		}
		if err := f.DeleteSheet(sheet); err != nil {
			return nil, fmt.Errorf("trimming sheet %s: %w", sheet, err)
		}
	}
	out, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing %s workbook: %w", keep, err)
	}
	return out.Bytes(), nil
}

func tabFileToken(tab string) string {
	switch tab {
	case TabVerified:
		return "Verificados"
	case TabMissing:
		return "Nao_Encontrados"
	case TabMisplaced:
		return "Local_Incorreto"
	default:
		return tab
	}
}
