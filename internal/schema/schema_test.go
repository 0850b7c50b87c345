package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/schema"
	"patrimon/internal/tabular"
)

func testInferencer() *schema.Inferencer {
	return schema.NewInferencer(config.ReconConfig{HeaderRows: 20, HeaderCols: 20})
}

// sheetRows appends rows to a named sheet of an open workbook.
func sheetRows(t *testing.T, f *excelize.File, sheet string, rows [][]interface{}) {
	t.Helper()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
}

func buildDoc(t *testing.T, name string, sheets []string, rows map[string][][]interface{}) *tabular.Document {
	t.Helper()
	f := excelize.NewFile()
	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		sheetRows(t, f, sheet, rows[sheet])
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	doc, err := tabular.Open(name, buf.Bytes())
	require.NoError(t, err)
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func legacyRows() [][]interface{} {
	return [][]interface{}{
		{"", "Denominação"},
		{"", "Sala 12 - Almoxarifado"},
		{},
		{"Nº Inventário", "Denominação do bem"},
		{"A001", "Cadeira giratória"},
		{"A002", "Mesa de escritório"},
	}
}

func TestInferRooms_LegacyMarker(t *testing.T) {
	doc := buildDoc(t, "master.xlsx", []string{"Plan1"}, map[string][][]interface{}{
		"Plan1": legacyRows(),
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	room := rooms[0]
	assert.Equal(t, domain.RoomWholeSheet, room.Kind)
	assert.Equal(t, "Sala 12 - Almoxarifado", room.DisplayName)
	assert.Equal(t, "Plan1", room.SheetName)
	assert.Equal(t, "master.xlsx", room.SourceDocument)
	assert.Equal(t, 4, room.HeaderRow)
	assert.Equal(t, 1, room.CodeCol)
	assert.Equal(t, 2, room.DescCol)
	assert.True(t, room.Extractable())
	assert.NotEmpty(t, room.SourceFingerprint)
}

func TestInferRooms_NoMarkerFallsBackToSheetName(t *testing.T) {
	doc := buildDoc(t, "master.xlsx", []string{"Depósito"}, map[string][][]interface{}{
		"Depósito": {
			{"Nº Inventário", "Denominação do bem"},
			{"B001", "Estante"},
		},
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "Depósito", rooms[0].DisplayName)
	assert.Equal(t, 1, rooms[0].HeaderRow)
}

func TestInferRooms_NoCodeColumnStillListed(t *testing.T) {
	doc := buildDoc(t, "master.xlsx", []string{"Plan1"}, map[string][][]interface{}{
		"Plan1": {
			{"Item", "Quantidade"},
			{"Cadeira", "3"},
		},
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.False(t, rooms[0].Extractable())
	assert.Zero(t, rooms[0].CodeCol)
}

func slicedRows() [][]interface{} {
	return [][]interface{}{
		{"Relatório de bens por localização"},
		{"Localização", "Sala 101", "Nº Inventário", "Denominação do bem"},
		{"", "", "C001", "Ventilador"},
		{"", "", "C002", "Quadro branco"},
		{"Localização: Sala 102 - Secretaria", "", "Nº Inventário", "Denominação do bem"},
		{"", "", "C003", "Impressora"},
	}
}

func TestInferRooms_SlicedBlocks(t *testing.T) {
	doc := buildDoc(t, "bens.xlsx", []string{"Geral"}, map[string][][]interface{}{
		"Geral": slicedRows(),
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	first, second := rooms[0], rooms[1]
	assert.Equal(t, domain.RoomSlicedBlock, first.Kind)
	assert.Equal(t, "Localização Sala 101", first.DisplayName)
	assert.Equal(t, 2, first.HeaderRow)
	assert.Equal(t, 3, first.StartRow)
	assert.Equal(t, 4, first.EndRow)
	assert.Equal(t, 3, first.CodeCol)

	assert.Equal(t, "Localização: Sala 102 - Secretaria", second.DisplayName)
	assert.Equal(t, 6, second.StartRow)
	assert.Zero(t, second.EndRow)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestInferRooms_SlicedSuppressesWholeSheet(t *testing.T) {
	doc := buildDoc(t, "bens.xlsx", []string{"Geral"}, map[string][][]interface{}{
		"Geral": slicedRows(),
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	for _, room := range rooms {
		assert.Equal(t, domain.RoomSlicedBlock, room.Kind)
	}
}

func TestInferRooms_Idempotent(t *testing.T) {
	build := func() *tabular.Document {
		return buildDoc(t, "bens.xlsx", []string{"Geral", "Plan1"}, map[string][][]interface{}{
			"Geral": slicedRows(),
			"Plan1": legacyRows(),
		})
	}

	inf := testInferencer()
	first, err := inf.InferRooms(build())
	require.NoError(t, err)
	second, err := inf.InferRooms(build())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestInferRooms_DuplicateIDsSuffixed(t *testing.T) {
	// Two blocks with the same label slug collide on id.
	doc := buildDoc(t, "bens.xlsx", []string{"Geral"}, map[string][][]interface{}{
		"Geral": {
			{"Localização", "Sala 101", "Nº Inventário"},
			{"", "", "D001"},
			{"Localização", "Sala 101", "Nº Inventário"},
			{"", "", "D002"},
		},
	})

	rooms, err := testInferencer().InferRooms(doc)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.NotEqual(t, rooms[0].ID, rooms[1].ID)
	assert.Equal(t, rooms[0].ID+"#2", rooms[1].ID)
}

func TestUniqueID_SkipsTakenSuffixes(t *testing.T) {
	seen := make(map[string]int)

	assert.Equal(t, "x", schema.UniqueID("x", seen))
	// A literal id that happens to look like a suffix stays reserved.
	assert.Equal(t, "x#2", schema.UniqueID("x#2", seen))
	assert.Equal(t, "x#3", schema.UniqueID("x", seen))
	assert.Equal(t, "x#4", schema.UniqueID("x", seen))
}
