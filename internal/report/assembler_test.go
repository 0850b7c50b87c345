package report_test

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patrimon/internal/domain"
	"patrimon/internal/report"
)

func sourceWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Plan1"))
	rows := [][]interface{}{
		{"Nº Inventário", "Denominação do bem"},
		{"A001", "Cadeira"},
		{"A002", "Mesa"},
		{"A003", "Armário"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Plan1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return buf.Bytes()
}

func testInput(t *testing.T) report.Input {
	t.Helper()
	return report.Input{
		Result: &domain.ReconciliationResult{
			Verified: []domain.ExpectedItem{
				{Code: "A001", Description: "Cadeira", RowIndex: 2, SourceRow: []string{"A001", "Cadeira"}},
			},
			Missing: []domain.ExpectedItem{
				{Code: "A002", Description: "Mesa", RowIndex: 3, SourceRow: []string{"A002", "Mesa"}},
				{Code: "A003", Description: "Armário", RowIndex: 4, SourceRow: []string{"A003", "Armário"}},
			},
			Misplaced: []domain.MisplacedItem{
				{Code: "X9", Location: "RoomY", SourceRow: []string{"X9", "Luminária"}},
				{Code: "Z1", Location: domain.SentinelNotFound},
			},
		},
		Room: &domain.Room{
			ID:          "master_xlsx/Plan1",
			DisplayName: "Sala 12",
			SheetName:   "Plan1",
			HeaderRow:   1,
			CodeCol:     1,
			DescCol:     2,
		},
		AnalystName: "João Silva",
		GeneratedAt: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		SourceData:  sourceWorkbook(t),
	}
}

func TestAssembler_UnknownFormat(t *testing.T) {
	_, err := report.NewAssembler().Render(domain.ReportFormat("pdf"), testInput(t))
	assert.ErrorIs(t, err, domain.ErrUnknownReportFormat)
}

func TestZipRenderer(t *testing.T) {
	artifact, err := report.NewAssembler().Render(domain.ReportFormatZip, testInput(t))
	require.NoError(t, err)

	assert.Equal(t, "joao_silva_sala_12_20260314_150926.zip", artifact.Filename)
	assert.Equal(t, "application/zip", artifact.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(artifact.Data), int64(len(artifact.Data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	names := make(map[string]bool)
	for _, entry := range zr.File {
		names[entry.Name] = true

		rc, err := entry.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		// Each entry is a standalone single-tab workbook.
		wb, err := excelize.OpenReader(bytes.NewReader(content))
		require.NoError(t, err)
		assert.Len(t, wb.GetSheetList(), 1)
		require.NoError(t, wb.Close())
	}
	assert.True(t, names["joao_silva_sala_12_20260314_150926_Verificados.xlsx"])
	assert.True(t, names["joao_silva_sala_12_20260314_150926_Nao_Encontrados.xlsx"])
	assert.True(t, names["joao_silva_sala_12_20260314_150926_Local_Incorreto.xlsx"])
}

func TestWorkbookRenderer(t *testing.T) {
	artifact, err := report.NewAssembler().Render(domain.ReportFormatWorkbook, testInput(t))
	require.NoError(t, err)
	assert.Equal(t, "joao_silva_sala_12_20260314_150926.xlsx", artifact.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.ElementsMatch(t,
		[]string{report.TabVerified, report.TabMissing, report.TabMisplaced},
		f.GetSheetList())

	// Verified tab carries the full source sheet copy.
	code, err := f.GetCellValue(report.TabVerified, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A001", code)

	// Missing tab repeats the header then only the missing rows.
	rows, err := f.GetRows(report.TabMissing)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nº Inventário", rows[0][0])
	assert.Equal(t, "A002", rows[1][0])
	assert.Equal(t, "A003", rows[2][0])

	// Misplaced tab lists code, expected room, and resolved location.
	rows, err = f.GetRows(report.TabMisplaced)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"X9", "Sala 12", "RoomY", "X9", "Luminária"}, rows[1])
	assert.Equal(t, domain.SentinelNotFound, rows[2][2])
}

func TestCSVRenderer(t *testing.T) {
	artifact, err := report.NewAssembler().Render(domain.ReportFormatCSV, testInput(t))
	require.NoError(t, err)
	assert.Equal(t, "joao_silva_sala_12_20260314_150926.csv", artifact.Filename)
	assert.Equal(t, "text/csv", artifact.ContentType)

	require.True(t, bytes.HasPrefix(artifact.Data, report.BOM))

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(artifact.Data, report.BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)

	// Header + 1 verified + 2 missing + 2 misplaced.
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Situação", "Código", "Descrição", "Localização"}, rows[0])
	assert.Equal(t, "A001", rows[1][1])
	assert.Equal(t, "Sala 12", rows[1][3])
	assert.Equal(t, domain.SentinelNotFound, rows[5][3])
}

func TestJSONRenderer(t *testing.T) {
	artifact, err := report.NewAssembler().Render(domain.ReportFormatJSON, testInput(t))
	require.NoError(t, err)
	assert.Equal(t, "application/json", artifact.ContentType)

	var decoded struct {
		AnalystName string                       `json:"analyst_name"`
		Room        *domain.Room                 `json:"room"`
		Result      *domain.ReconciliationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(artifact.Data, &decoded))
	assert.Equal(t, "João Silva", decoded.AnalystName)
	assert.Equal(t, "Sala 12", decoded.Room.DisplayName)
	assert.Len(t, decoded.Result.Missing, 2)
}
